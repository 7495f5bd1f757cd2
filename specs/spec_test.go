package specs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	specsgo "github.com/opencontainers/runtime-spec/specs-go"
	"github.com/stretchr/testify/require"

	fire "github.com/fire-runtime/fire"
)

func writeConfig(t *testing.T, bundle string, spec *specsgo.Spec) {
	raw, err := json.Marshal(spec)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(bundle, ConfigFile), raw, 0o644))
}

func minimalSpec(rootfs string) *specsgo.Spec {
	return &specsgo.Spec{
		Version: "1.0.2",
		Process: &specsgo.Process{Args: []string{"/bin/sh"}, Cwd: "/"},
		Root:    &specsgo.Root{Path: rootfs},
	}
}

func TestLoadValid(t *testing.T) {
	bundle := t.TempDir()
	rootfs := filepath.Join(bundle, "rootfs")
	require.NoError(t, os.Mkdir(rootfs, 0o755))
	writeConfig(t, bundle, minimalSpec("rootfs"))

	spec, err := Load(bundle)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(bundle, "rootfs"), spec.Root.Path)
}

func TestLoadMissingConfig(t *testing.T) {
	bundle := t.TempDir()
	_, err := Load(bundle)
	require.Error(t, err)
	require.Equal(t, fire.KindInvalidSpec, fire.KindOf(err))
}

func TestValidateRejectsEmptyArgs(t *testing.T) {
	spec := minimalSpec("rootfs")
	spec.Process.Args = nil
	require.Error(t, Validate(spec))
}

func TestValidateRejectsUserNamespaceWithoutMappings(t *testing.T) {
	spec := minimalSpec("rootfs")
	spec.Linux = &specsgo.Linux{
		Namespaces: []specsgo.LinuxNamespace{{Type: specsgo.UserNamespace}},
	}
	err := Validate(spec)
	require.Error(t, err)
	require.Equal(t, fire.KindUserMappingRequired, fire.KindOf(err))
}

func TestValidateRejectsMappingsWithoutUserNamespace(t *testing.T) {
	spec := minimalSpec("rootfs")
	spec.Linux = &specsgo.Linux{
		UIDMappings: []specsgo.LinuxIDMapping{{HostID: 0, ContainerID: 0, Size: 1}},
	}
	require.Error(t, Validate(spec))
}

func TestHasNamespace(t *testing.T) {
	spec := minimalSpec("rootfs")
	spec.Linux = &specsgo.Linux{
		Namespaces: []specsgo.LinuxNamespace{{Type: specsgo.PIDNamespace}},
	}
	require.True(t, HasNamespace(spec, specsgo.PIDNamespace))
	require.False(t, HasNamespace(spec, specsgo.NetworkNamespace))
}
