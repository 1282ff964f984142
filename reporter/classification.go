// Package reporter classifies faults into the three kinds the buildpack
// framework needs to render differently, and carries the notification
// stream (added/skipped/restored/downloaded package events) that the
// resolver and installer emit as they work.
package reporter

import (
	"fmt"
	"strings"
)

// Kind is the top-level classification of a fault.
type Kind int

const (
	// UserFacing faults are caused by something the user (or the upstream
	// archive) did; the message should tell them what to do about it.
	UserFacing Kind = iota
	// Internal faults are buildpack bugs; the message invites an issue.
	Internal
	// Framework faults pass through from the host buildpack lifecycle
	// unchanged.
	Framework
)

// Fault is a structured, classified error carrying enough context to render
// a user-visible banner: what kind of problem it is, what file or URL was
// involved, whether a retry might help, and the underlying error for debug
// output.
type Fault struct {
	Kind         Kind
	Subject      string // file path, URL, or package name this fault concerns
	SuggestRetry bool
	SuggestIssue bool
	// Suggestions carries fault-specific advice beyond the generic retry
	// and issue-tracker lines: where to look a package name up, the
	// upstream archive's status page, the configuration documentation.
	Suggestions []string
	Cause       error
}

func (f *Fault) Error() string {
	if f.Subject == "" {
		return f.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", f.Subject, f.Cause)
}

func (f *Fault) Unwrap() error { return f.Cause }

// UserFault builds a UserFacing Fault.
func UserFault(subject string, cause error, retry, issue bool) *Fault {
	return &Fault{Kind: UserFacing, Subject: subject, Cause: cause, SuggestRetry: retry, SuggestIssue: issue}
}

// InternalFault builds an Internal Fault. Internal faults always invite an
// issue to be filed; they are never retryable by definition.
func InternalFault(subject string, cause error) *Fault {
	return &Fault{Kind: Internal, Subject: subject, Cause: cause, SuggestIssue: true}
}

// FrameworkFault wraps an error raised by the host framework, passed through
// unclassified.
func FrameworkFault(cause error) *Fault {
	return &Fault{Kind: Framework, Cause: cause}
}

const issueTrackerURL = "https://github.com/heroku/buildpacks-deb-packages/issues"

// Render formats f for the user: debug info (the raw error text) first,
// never inline with the rest, then a banner naming the fault kind and
// cause, and, when applicable, a Suggestions list pointing at a retry or
// the issue tracker.
func (f *Fault) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "debug: %v\n\n", f.Cause)

	switch f.Kind {
	case Internal:
		fmt.Fprintf(&b, "deb-packages: internal error: %s\n", f.Error())
	case Framework:
		fmt.Fprintf(&b, "deb-packages: build failed: %s\n", f.Error())
	default:
		fmt.Fprintf(&b, "deb-packages: %s\n", f.Error())
	}

	suggestions := append([]string{}, f.Suggestions...)
	if f.SuggestRetry {
		suggestions = append(suggestions, "Retry the build; this may be a transient upstream failure.")
	}
	if f.SuggestIssue {
		suggestions = append(suggestions, fmt.Sprintf("If this persists, file an issue at %s.", issueTrackerURL))
	}
	if len(suggestions) > 0 {
		b.WriteString("\nSuggestions:\n")
		for _, s := range suggestions {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}

	return b.String()
}
