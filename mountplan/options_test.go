package mountplan

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestParseOptionsFlags(t *testing.T) {
	flags, prop, data := parseOptions([]string{"rbind", "ro", "noexec"})
	if flags&unix.MS_BIND == 0 || flags&unix.MS_REC == 0 {
		t.Errorf("expected MS_BIND|MS_REC, got %x", flags)
	}
	if flags&unix.MS_RDONLY == 0 {
		t.Errorf("expected MS_RDONLY, got %x", flags)
	}
	if flags&unix.MS_NOEXEC == 0 {
		t.Errorf("expected MS_NOEXEC, got %x", flags)
	}
	if prop != 0 {
		t.Errorf("expected no propagation flags, got %x", prop)
	}
	if len(data) != 0 {
		t.Errorf("expected no extra data, got %v", data)
	}
}

func TestParseOptionsPropagation(t *testing.T) {
	_, prop, _ := parseOptions([]string{"rprivate"})
	if prop != unix.MS_PRIVATE|unix.MS_REC {
		t.Errorf("expected MS_PRIVATE|MS_REC, got %x", prop)
	}
}

func TestParseOptionsClearing(t *testing.T) {
	flags, _, _ := parseOptions([]string{"nosuid", "suid"})
	if flags&unix.MS_NOSUID != 0 {
		t.Errorf("expected suid to clear nosuid, got %x", flags)
	}
}

func TestParseOptionsExtraData(t *testing.T) {
	_, _, data := parseOptions([]string{"mode=755", "size=65536k"})
	if len(data) != 2 {
		t.Fatalf("expected 2 data entries, got %v", data)
	}
}
