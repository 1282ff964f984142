package reporter

import (
	"errors"
	"strings"
	"testing"
)

func TestRenderPutsDebugBeforeBanner(t *testing.T) {
	fault := UserFault("package index", errors.New("checksum mismatch"), true, false)
	rendered := fault.Render()

	debugIdx := strings.Index(rendered, "debug: checksum mismatch")
	bannerIdx := strings.Index(rendered, "deb-packages: package index")
	if debugIdx == -1 || bannerIdx == -1 {
		t.Fatalf("missing debug line or banner in:\n%s", rendered)
	}
	if debugIdx > bannerIdx {
		t.Errorf("expected debug output above the banner:\n%s", rendered)
	}
}

func TestRenderInternalInvitesIssue(t *testing.T) {
	fault := InternalFault("pinned certificate", errors.New("armor decode failed"))
	rendered := fault.Render()
	if !strings.Contains(rendered, "internal error") {
		t.Errorf("expected an internal-error banner in:\n%s", rendered)
	}
	if !strings.Contains(rendered, issueTrackerURL) {
		t.Errorf("expected the issue tracker URL in:\n%s", rendered)
	}
}

func TestRenderIncludesExtraSuggestionsFirst(t *testing.T) {
	fault := UserFault("requested package", errors.New("not found"), true, false)
	fault.Suggestions = []string{"Verify the package name."}
	rendered := fault.Render()
	if !strings.Contains(rendered, "Suggestions:") || !strings.Contains(rendered, "Verify the package name.") {
		t.Errorf("expected the extra suggestion in:\n%s", rendered)
	}
	extraIdx := strings.Index(rendered, "Verify the package name.")
	retryIdx := strings.Index(rendered, "Retry the build")
	if retryIdx == -1 || extraIdx > retryIdx {
		t.Errorf("expected the extra suggestion before the generic retry line in:\n%s", rendered)
	}
}

func TestRenderOmitsSuggestionsWhenNone(t *testing.T) {
	fault := UserFault("requested package", errors.New("not found"), false, false)
	if strings.Contains(fault.Render(), "Suggestions:") {
		t.Error("expected no Suggestions block")
	}
}

func TestFaultUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	fault := FrameworkFault(cause)
	if !errors.Is(fault, cause) {
		t.Error("expected errors.Is to reach the cause through the fault")
	}
}
