package renderer

import (
	"errors"
	"testing"
)

func TestClassifyAcquireError(t *testing.T) {
	tests := []struct {
		msg  string
		want error
	}{
		{"Surface is lost", ErrSurfaceLost},
		{"surface texture status: Timeout", ErrSurfaceTimeout},
		{"acquire timed out", ErrSurfaceTimeout},
		{"surface texture status: Outdated", ErrSurfaceOutdated},
		{"failed to acquire next swapchain texture", ErrSurfaceOutdated},
		{"Out of memory", ErrDeviceLost},
		{"Parent device is lost", ErrDeviceLost},
	}
	for _, tt := range tests {
		got := classifyAcquireError(errors.New(tt.msg))
		if !errors.Is(got, tt.want) {
			t.Errorf("classify(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
	if classifyAcquireError(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestErrorPredicates(t *testing.T) {
	if !NeedsReconfigure(ErrSurfaceLost) || !NeedsReconfigure(ErrSurfaceOutdated) {
		t.Fatalf("lost and outdated surfaces need reconfiguring")
	}
	if NeedsReconfigure(ErrSurfaceTimeout) {
		t.Fatalf("timeout only skips the frame")
	}
	if !IsTransient(ErrSurfaceTimeout) || IsTransient(ErrDeviceLost) || IsTransient(nil) {
		t.Fatalf("unexpected transient classification")
	}
}
