package main

import (
	"testing"
	"time"
)

func TestBringupContextDefaultsTo30Seconds(t *testing.T) {
	t.Setenv("FIRE_TIMEOUT_MS", "")
	ctx, cancel := bringupContext()
	defer cancel()

	dl, ok := ctx.Deadline()
	if !ok {
		t.Fatal("bringupContext() has no deadline, want defaultBringupTimeout")
	}
	if d := time.Until(dl); d <= 0 || d > defaultBringupTimeout {
		t.Errorf("deadline %v from now, want within (0, %v]", d, defaultBringupTimeout)
	}
}

func TestBringupContextInvalidFallsBackToDefault(t *testing.T) {
	t.Setenv("FIRE_TIMEOUT_MS", "not-a-number")
	ctx, cancel := bringupContext()
	defer cancel()

	if _, ok := ctx.Deadline(); !ok {
		t.Fatal("bringupContext() has no deadline, want defaultBringupTimeout")
	}
}

func TestBringupContextHonorsOverride(t *testing.T) {
	t.Setenv("FIRE_TIMEOUT_MS", "50")
	ctx, cancel := bringupContext()
	defer cancel()

	dl, ok := ctx.Deadline()
	if !ok {
		t.Fatal("bringupContext() has no deadline, want 50ms")
	}
	if d := time.Until(dl); d > 50*time.Millisecond {
		t.Errorf("deadline %v from now, want <= 50ms", d)
	}
}
