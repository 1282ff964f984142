package acquire

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/heroku/buildpacks-deb-packages/control"
)

// ParseIndex normalizes one decompressed Packages index body, splits it
// into stanzas, and parses each stanza on a bounded CPU worker pool,
// feeding every result into index. Unlike a typical fail-fast pool, a
// malformed stanza does not cancel its siblings: every stanza is parsed
// and every parse error is collected, so the caller can report the full
// set of problems in one pass instead of just the first.
func ParseIndex(ctx context.Context, repositoryURI string, body []byte, index *control.PackageIndex) error {
	normalized := strings.ReplaceAll(string(body), "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\x00", "")
	stanzas := splitStanzas(normalized)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())

	var mu sync.Mutex
	var parseErrors []error

	for _, stanza := range stanzas {
		stanza := stanza
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			p, err := control.Parse(repositoryURI, stanza)
			if err != nil {
				mu.Lock()
				parseErrors = append(parseErrors, fmt.Errorf("failed to parse stanza in %s: %w", repositoryURI, err))
				mu.Unlock()
				return nil
			}
			index.AddPackage(p)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return errors.Join(parseErrors...)
}

// splitStanzas splits a normalized index body on blank lines, discarding
// any stanza that's entirely whitespace (trailing newline at EOF, or
// consecutive blank lines).
func splitStanzas(body string) []string {
	raw := strings.Split(body, "\n\n")
	stanzas := make([]string, 0, len(raw))
	for _, s := range raw {
		if strings.TrimSpace(s) == "" {
			continue
		}
		stanzas = append(stanzas, s)
	}
	return stanzas
}
