package reporter

import (
	"encoding/json"
	"fmt"
)

// Listener receives one event per notable occurrence during resolution and
// installation.
type Listener func(fmt.Stringer)

// Discard is a Listener that drops every event; useful as a zero-value
// default.
func Discard(fmt.Stringer) {}

func jsonString(v interface{}) string {
	b, _ := json.Marshal(map[string]interface{}{
		fmt.Sprintf("%T", v): v,
	})
	return string(b)
}

// EventPackageAdded is emitted when the resolver marks a package for
// installation.
type EventPackageAdded struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	RequestedBy string   `json:"requested_by"`
	Path        []string `json:"path,omitempty"`
}

func (e EventPackageAdded) String() string { return jsonString(e) }

// EventPackageSkippedOnSystem is emitted when the resolver visits a name
// already present on the build image: a requested package, or the sole
// provider of a virtual package. A real dependency already on the system is
// skipped before it is visited, without this event.
type EventPackageSkippedOnSystem struct {
	Name string `json:"name"`
}

func (e EventPackageSkippedOnSystem) String() string { return jsonString(e) }

// EventPackageAlreadyMarked is emitted when the resolver visits a name
// already marked for install: a requested package that an earlier request
// already marked, or the sole provider of a virtual package. A dependency
// already marked (cycle or diamond) is skipped before it is visited, without
// this event.
type EventPackageAlreadyMarked struct {
	Name string `json:"name"`
}

func (e EventPackageAlreadyMarked) String() string { return jsonString(e) }

// EventVirtualPackageResolved is emitted when a virtual package name is
// replaced by its sole provider.
type EventVirtualPackageResolved struct {
	VirtualName string `json:"virtual_name"`
	Provider    string `json:"provider"`
}

func (e EventVirtualPackageResolved) String() string { return jsonString(e) }

// EventLayerRestored is emitted when a layer's metadata matched and the
// cached contents were reused without re-downloading.
type EventLayerRestored struct {
	Layer string `json:"layer"`
}

func (e EventLayerRestored) String() string { return jsonString(e) }

// EventLayerInvalidated is emitted when a layer's metadata did not match and
// its contents were discarded.
type EventLayerInvalidated struct {
	Layer  string `json:"layer"`
	Reason string `json:"reason"`
}

func (e EventLayerInvalidated) String() string { return jsonString(e) }

// EventPackageDownloaded is emitted once a selected package's .deb has been
// fetched and checksum-verified.
type EventPackageDownloaded struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (e EventPackageDownloaded) String() string { return jsonString(e) }

// EventPackageExtracted is emitted once a package's data archive has been
// unpacked into the layer.
type EventPackageExtracted struct {
	Name string `json:"name"`
}

func (e EventPackageExtracted) String() string { return jsonString(e) }
