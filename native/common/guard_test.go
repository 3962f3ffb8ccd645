package common

import (
	"errors"
	"testing"
)

type pauseSet map[string]bool

func (p pauseSet) IsPaused(module string) bool { return p[module] }

func TestGuard(t *testing.T) {
	if err := Guard(nil, "campaign"); err != nil {
		t.Fatalf("nil view should never pause: %v", err)
	}
	paused := pauseSet{"campaign": true}
	if err := Guard(paused, "campaign"); !errors.Is(err, ErrModulePaused) {
		t.Fatalf("expected ErrModulePaused, got %v", err)
	}
	if err := Guard(paused, "other"); err != nil {
		t.Fatalf("unrelated module should pass: %v", err)
	}
	if err := Guard(paused, ""); err != nil {
		t.Fatalf("empty module should pass: %v", err)
	}
}
