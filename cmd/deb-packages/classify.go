package main

import (
	"errors"

	"github.com/heroku/buildpacks-deb-packages/acquire"
	"github.com/heroku/buildpacks-deb-packages/config"
	"github.com/heroku/buildpacks-deb-packages/debian"
	"github.com/heroku/buildpacks-deb-packages/install"
	"github.com/heroku/buildpacks-deb-packages/pgp"
	"github.com/heroku/buildpacks-deb-packages/reporter"
	"github.com/heroku/buildpacks-deb-packages/resolve"
)

// classify maps a build error to the three-way fault it belongs to, per the
// error taxonomy: configuration and resolution faults are user-facing with
// no filed issue, network/index faults are user-facing and retryable,
// unsupported distros and archive/filesystem faults are internal bugs,
// and anything unrecognized is passed through as a framework fault.
func classify(err error) *reporter.Fault {
	var (
		unreadableConfig *config.ReadConfigError
		invalidTOML      *config.InvalidTOMLError
		wrongConfigType  *config.WrongConfigTypeError
		badPackage       *config.ParseRequestedPackageError
		badStatusDB      *config.StatusDatabaseError
		badSystemPkg     *config.ParseSystemPackageError
		unsupported      *debian.UnsupportedDistroError
		badCert          *pgp.CertificateError
		verifyFailed     *pgp.VerificationFailedError
		missingSHA256    *acquire.MissingSHA256SectionError
		missingHash      *acquire.MissingPackageIndexReleaseHashError
		indexChecksum    *acquire.ChecksumFailedError
		notFound         *resolve.PackageNotFoundError
		ambiguous        *resolve.VirtualAmbiguousError
		badFilename      *install.InvalidFilenameError
		downloadSum      *install.ChecksumFailedError
		unsupportedComp  *install.UnsupportedCompressionError
	)

	switch {
	case errors.As(err, &unreadableConfig), errors.As(err, &invalidTOML),
		errors.As(err, &wrongConfigType), errors.As(err, &badPackage):
		fault := reporter.UserFault("project.toml", err, true, false)
		fault.Suggestions = []string{"See the configuration reference at " + docsURL + "."}
		return fault

	case errors.As(err, &badStatusDB), errors.As(err, &badSystemPkg):
		return reporter.InternalFault("dpkg status database", err)

	case errors.As(err, &unsupported):
		return reporter.InternalFault("target distribution", err)

	case errors.As(err, &badCert):
		return reporter.InternalFault("pinned certificate", err)
	case errors.As(err, &verifyFailed):
		return reporter.UserFault("PGP verification", err, true, true)

	case errors.As(err, &missingSHA256), errors.As(err, &missingHash):
		fault := reporter.UserFault("release file", err, true, true)
		fault.Suggestions = []string{"Check the archive's status at " + archiveStatusURL + "."}
		return fault
	case errors.As(err, &indexChecksum):
		fault := reporter.UserFault("package index", err, true, false)
		fault.Suggestions = []string{"Check the archive's status at " + archiveStatusURL + "."}
		return fault

	case errors.As(err, &notFound), errors.As(err, &ambiguous):
		fault := reporter.UserFault("requested package", err, false, false)
		fault.Suggestions = []string{"Verify the package name and its availability at " + packageSearchURL + "."}
		return fault

	case errors.As(err, &downloadSum):
		fault := reporter.UserFault("package download", err, true, false)
		fault.Suggestions = []string{"Check the archive's status at " + archiveStatusURL + "."}
		return fault
	case errors.As(err, &badFilename), errors.As(err, &unsupportedComp):
		return reporter.InternalFault("package archive", err)

	default:
		return reporter.FrameworkFault(err)
	}
}

const (
	packageSearchURL = "https://packages.ubuntu.com/"
	archiveStatusURL = "https://status.canonical.com/"
	docsURL          = "https://github.com/heroku/buildpacks-deb-packages#configuration"
)
