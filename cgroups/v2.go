package cgroups

import "github.com/fire-runtime/fire/cgroups/unified"

func newV2Manager(path string) Manager {
	return unified.New(path)
}
