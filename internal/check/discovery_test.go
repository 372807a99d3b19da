package check

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func makeUnitDir(t *testing.T, root, unit string, testFiles map[string]string) string {
	t.Helper()

	unitDir := filepath.Join(root, unit)
	testsDir := filepath.Join(unitDir, "statecheck-tests")
	require.NoError(t, os.MkdirAll(testsDir, 0o755))

	for name, content := range testFiles {
		writeTestFile(t, filepath.Join(testsDir, name), content)
	}

	return unitDir
}

func TestFindUnitDir(t *testing.T) {
	envRoot := t.TempDir()
	baseRoot := t.TempDir()

	envApache := makeUnitDir(t, envRoot, "apache", map[string]string{"a.tst": ""})
	makeUnitDir(t, baseRoot, "apache", map[string]string{"a.tst": ""})
	baseNginx := makeUnitDir(t, baseRoot, "nginx", map[string]string{"n.tst": ""})

	discovery := NewDiscovery(newTestLogger(), []string{envRoot, baseRoot})

	dir, ok := discovery.FindUnitDir("apache")
	require.True(t, ok)
	assert.Equal(t, envApache, dir, "environment root should win")

	dir, ok = discovery.FindUnitDir("nginx")
	require.True(t, ok)
	assert.Equal(t, baseNginx, dir)

	_, ok = discovery.FindUnitDir("postgres")
	assert.False(t, ok)
}

func TestFindUnitDirRequiresTestsSubdir(t *testing.T) {
	envRoot := t.TempDir()
	baseRoot := t.TempDir()

	// The environment holds the unit but no tests; the base copy has them.
	require.NoError(t, os.MkdirAll(filepath.Join(envRoot, "apache"), 0o755))
	baseApache := makeUnitDir(t, baseRoot, "apache", map[string]string{"a.tst": ""})

	discovery := NewDiscovery(newTestLogger(), []string{envRoot, baseRoot})

	dir, ok := discovery.FindUnitDir("apache")
	require.True(t, ok)
	assert.Equal(t, baseApache, dir)
}

func TestFindUnitDirNested(t *testing.T) {
	root := t.TempDir()
	nested := makeUnitDir(t, filepath.Join(root, "stack", "web"), "apache", map[string]string{"a.tst": ""})

	discovery := NewDiscovery(newTestLogger(), []string{root})

	dir, ok := discovery.FindUnitDir("apache")
	require.True(t, ok)
	assert.Equal(t, nested, dir)
}

func TestFindUnitDirMissingRoots(t *testing.T) {
	discovery := NewDiscovery(newTestLogger(), []string{filepath.Join(t.TempDir(), "absent")})

	_, ok := discovery.FindUnitDir("apache")
	assert.False(t, ok)
}

func TestGatherTestFiles(t *testing.T) {
	root := t.TempDir()
	unitDir := makeUnitDir(t, root, "apache", map[string]string{
		"b.tst":    "",
		"a.tst":    "",
		"notes.md": "",
	})
	writeTestFile(t, filepath.Join(unitDir, "statecheck-tests", "sub", "c.tst"), "")

	discovery := NewDiscovery(newTestLogger(), []string{root})

	files, err := discovery.GatherTestFiles(unitDir)
	require.NoError(t, err)

	testsDir := filepath.Join(unitDir, "statecheck-tests")
	assert.Equal(t, []string{
		filepath.Join(testsDir, "a.tst"),
		filepath.Join(testsDir, "b.tst"),
		filepath.Join(testsDir, "sub", "c.tst"),
	}, files)
}

func TestNormalizeUnits(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "dotted names collapse",
			input:    []string{"apache.vhost_web1", "apache.modules", "nginx"},
			expected: []string{"apache", "nginx"},
		},
		{
			name:     "order preserved",
			input:    []string{"nginx", "apache.vhosts", "apache"},
			expected: []string{"nginx", "apache"},
		},
		{
			name:     "empty entries dropped",
			input:    []string{"", "apache", ".hidden"},
			expected: []string{"apache"},
		},
		{
			name:     "empty input",
			input:    []string{},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeUnits(tt.input))
		})
	}
}
