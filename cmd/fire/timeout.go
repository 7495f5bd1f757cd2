package main

import (
	"context"
	"os"
	"strconv"
	"time"
)

// defaultBringupTimeout is the deadline create's socketpair handshake
// must finish within when FIRE_TIMEOUT_MS is unset or invalid.
const defaultBringupTimeout = 30 * time.Second

// bringupContext returns a context bounded by FIRE_TIMEOUT_MS, falling
// back to defaultBringupTimeout.
func bringupContext() (context.Context, context.CancelFunc) {
	raw := os.Getenv("FIRE_TIMEOUT_MS")
	if raw == "" {
		return context.WithTimeout(context.Background(), defaultBringupTimeout)
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return context.WithTimeout(context.Background(), defaultBringupTimeout)
	}
	return context.WithTimeout(context.Background(), time.Duration(ms)*time.Millisecond)
}
