package lifecycle

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// procStartTime reads the 22nd whitespace-delimited field of
// /proc/<pid>/stat (starttime, in clock ticks since boot), the value
// libcontainer stored alongside InitPid in State so a later status
// check could tell a live container's process apart from an unrelated
// process that happened to reuse the same pid. Returns 0 if the
// process is gone or /proc can't be read.
func procStartTime(pid int) uint64 {
	raw, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return 0
	}
	// The comm field (2nd field) is parenthesized and may itself
	// contain spaces/parens, so start parsing after its closing paren
	// rather than splitting naively on every space.
	line := string(raw)
	closeParen := strings.LastIndex(line, ")")
	if closeParen < 0 {
		return 0
	}
	fields := strings.Fields(line[closeParen+1:])
	// starttime is field 22 overall; fields[0] here is field 3.
	const starttimeIndex = 22 - 3
	if len(fields) <= starttimeIndex {
		return 0
	}
	v, err := strconv.ParseUint(fields[starttimeIndex], 10, 64)
	if err != nil {
		return 0
	}
	return v
}
