package cgroups

import (
	"github.com/fire-runtime/fire/cgroups/fs"
)

func newV1Manager(path string) Manager {
	return fs.New(path)
}
