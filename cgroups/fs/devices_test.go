package fs

import (
	"testing"

	specs "github.com/opencontainers/runtime-spec/specs-go"
)

func TestDeviceRule(t *testing.T) {
	major, minor := int64(1), int64(5)
	d := specs.LinuxDeviceCgroup{Allow: true, Type: "c", Major: &major, Minor: &minor, Access: "rwm"}
	if got, want := deviceRule(d), "c 1:5 rwm"; got != want {
		t.Errorf("deviceRule() = %q, want %q", got, want)
	}
}

func TestDeviceRuleWildcard(t *testing.T) {
	d := specs.LinuxDeviceCgroup{Allow: false}
	if got, want := deviceRule(d), "a *:* rwm"; got != want {
		t.Errorf("deviceRule() = %q, want %q", got, want)
	}
}
