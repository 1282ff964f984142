// Command deb-packages is the buildpack binary providing the `detect` and
// `build` entrypoints of the Cloud Native Buildpacks lifecycle. A single
// binary serves both phases, the lifecycle tells them apart by which
// symlink name (`detect` or `build`) it invokes; the phase can also be
// given as the first argument for local testing.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

func main() {
	phase := filepath.Base(os.Args[0])
	args := os.Args[1:]
	if phase != "detect" && phase != "build" && len(args) > 0 {
		phase = args[0]
		args = args[1:]
	}

	logger := newLogger()
	defer logger.Sync()

	var err error
	switch phase {
	case "detect":
		err = runDetect(args)
	case "build":
		err = runBuild(args, logger)
	default:
		fmt.Fprintf(os.Stderr, "unknown phase %q: invoke as \"detect\" or \"build\"\n", phase)
		os.Exit(1)
	}

	if err != nil {
		if _, ok := err.(detectFailed); ok {
			os.Exit(100)
		}
		logger.Debug("build failed", zap.Error(err))
		fault := classify(err)
		fmt.Fprint(os.Stderr, fault.Render())
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	var logger *zap.Logger
	var err error
	if os.Getenv("BP_LOG_LEVEL") == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}
