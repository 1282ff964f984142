// Package layer implements the keep-or-discard decision shared by every
// cached layer this buildpack writes: a release layer, an index layer, and
// the packages layer all compare their previous build's metadata against
// the metadata the current build computed, and keep the layer's contents
// only on an exact match.
package layer

import (
	"bytes"
	"encoding/json"
)

// Cause names the outcome of a keep-or-discard decision: one of the three
// causes named for every layer flavor for not keeping a layer, or Kept.
type Cause int

const (
	// NewlyCreated means there was no previous metadata to compare against.
	NewlyCreated Cause = iota
	// InvalidMetadata means the previous metadata could not be decoded.
	InvalidMetadata
	// Mismatched means the previous metadata decoded fine but differs from
	// the metadata the current build computed.
	Mismatched
	// Kept means the layer's contents are reused unchanged.
	Kept
)

// Decision is the outcome of comparing a layer's stored metadata to freshly
// computed metadata.
type Decision struct {
	Keep   bool
	Cause  Cause
	Reason string
}

// Evaluate decides whether to keep a layer given its previously stored
// metadata (oldJSON, empty if the layer didn't exist or was never
// successfully written) and the metadata the current build computed.
// mismatchReason customizes the message for the Mismatched cause, since
// each layer flavor describes the same outcome differently (e.g. "stored
// ETag did not match" for a release layer).
func Evaluate[T any](oldJSON []byte, current T, mismatchReason string) Decision {
	if len(oldJSON) == 0 {
		return Decision{Keep: false, Cause: NewlyCreated, Reason: "new"}
	}

	var old T
	if err := json.Unmarshal(oldJSON, &old); err != nil {
		return Decision{Keep: false, Cause: InvalidMetadata, Reason: "invalidated: invalid metadata"}
	}

	oldNormalized, err := json.Marshal(old)
	if err != nil {
		return Decision{Keep: false, Cause: InvalidMetadata, Reason: "invalidated: invalid metadata"}
	}
	currentNormalized, err := json.Marshal(current)
	if err != nil {
		return Decision{Keep: false, Cause: InvalidMetadata, Reason: "invalidated: invalid metadata"}
	}

	if bytes.Equal(oldNormalized, currentNormalized) {
		return Decision{Keep: true, Cause: Kept, Reason: "restored"}
	}
	return Decision{Keep: false, Cause: Mismatched, Reason: "invalidated: " + mismatchReason}
}
