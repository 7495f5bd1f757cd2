package store

import "time"

// Status is the lifecycle state of a container record, matching the OCI
// runtime state machine.
type Status string

const (
	StatusCreating Status = "creating"
	StatusCreated  Status = "created"
	StatusRunning  Status = "running"
	StatusStopped  Status = "stopped"
)

// Record is the on-disk representation of a container's state, the
// subset of information a runtime invocation needs to operate on an
// existing container without re-reading its bundle.
type Record struct {
	ID          string            `json:"id"`
	Bundle      string            `json:"bundle"`
	Rootfs      string            `json:"rootfs"`
	Status      Status            `json:"status"`
	Pid         int               `json:"pid,omitempty"`
	StartTime   uint64            `json:"startTime,omitempty"`
	CgroupsPath string            `json:"cgroupsPath,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	Annotations map[string]string `json:"annotations,omitempty"`
}
