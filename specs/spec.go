// Package specs loads and validates OCI runtime bundle configuration
// (config.json), wrapping the upstream runtime-spec types with the
// checks fire needs before it will hand a spec to the rest of the
// runtime.
package specs

import (
	"encoding/json"
	"os"
	"path/filepath"

	specs "github.com/opencontainers/runtime-spec/specs-go"

	fire "github.com/fire-runtime/fire"
)

// ConfigFile is the fixed bundle config name the OCI spec requires.
const ConfigFile = "config.json"

// Load reads and validates bundle/config.json, returning the parsed
// spec with Root.Path resolved to an absolute path.
func Load(bundle string) (*specs.Spec, error) {
	path := filepath.Join(bundle, ConfigFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fire.NewError(fire.KindInvalidSpec, "specs.Load", path, err)
		}
		return nil, fire.NewError(fire.KindSystem, "specs.Load", path, err)
	}

	var spec specs.Spec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fire.NewError(fire.KindInvalidSpec, "specs.Load", path, err)
	}

	if err := Validate(&spec); err != nil {
		return nil, err
	}

	if !filepath.IsAbs(spec.Root.Path) {
		root, err := filepath.Abs(filepath.Join(bundle, spec.Root.Path))
		if err != nil {
			return nil, fire.NewError(fire.KindSystem, "specs.Load", path, err)
		}
		spec.Root.Path = root
	}
	return &spec, nil
}

// Validate checks the structural invariants fire's components rely on:
// a runnable process, a non-empty root.path, and a coherent user
// namespace configuration. Whether the rootfs exists is checked
// separately by RootfsExists. It does not attempt to validate every field of the
// OCI spec, only the ones later components assume hold.
func Validate(spec *specs.Spec) error {
	if spec.Process == nil || len(spec.Process.Args) == 0 {
		return fire.Errorf(fire.KindInvalidSpec, "specs.Validate", "", "process.args must be non-empty")
	}
	if spec.Root == nil || spec.Root.Path == "" {
		return fire.Errorf(fire.KindInvalidSpec, "specs.Validate", "", "root.path must be set")
	}

	if spec.Linux != nil {
		hasUserNS := false
		for _, ns := range spec.Linux.Namespaces {
			if ns.Type == specs.UserNamespace {
				hasUserNS = true
				break
			}
		}
		if hasUserNS && (len(spec.Linux.UIDMappings) == 0 || len(spec.Linux.GIDMappings) == 0) {
			return fire.Errorf(fire.KindUserMappingRequired, "specs.Validate", "",
				"user namespace requested but uidMappings/gidMappings are empty")
		}
		if !hasUserNS && (len(spec.Linux.UIDMappings) > 0 || len(spec.Linux.GIDMappings) > 0) {
			return fire.Errorf(fire.KindInvalidSpec, "specs.Validate", "",
				"uidMappings/gidMappings set without a user namespace")
		}
	}
	return nil
}

// RootfsExists reports whether spec.Root.Path exists and is a directory.
func RootfsExists(spec *specs.Spec) error {
	fi, err := os.Stat(spec.Root.Path)
	if err != nil {
		return fire.NewError(fire.KindInvalidSpec, "specs.RootfsExists", spec.Root.Path, err)
	}
	if !fi.IsDir() {
		return fire.Errorf(fire.KindInvalidSpec, "specs.RootfsExists", spec.Root.Path, "not a directory")
	}
	return nil
}

// HasNamespace reports whether the spec requests the given Linux
// namespace type.
func HasNamespace(spec *specs.Spec, typ specs.LinuxNamespaceType) bool {
	if spec.Linux == nil {
		return false
	}
	for _, ns := range spec.Linux.Namespaces {
		if ns.Type == typ {
			return true
		}
	}
	return false
}

// Namespace returns the namespace entry of the given type, if requested.
func Namespace(spec *specs.Spec, typ specs.LinuxNamespaceType) (specs.LinuxNamespace, bool) {
	if spec.Linux == nil {
		return specs.LinuxNamespace{}, false
	}
	for _, ns := range spec.Linux.Namespaces {
		if ns.Type == typ {
			return ns, true
		}
	}
	return specs.LinuxNamespace{}, false
}
