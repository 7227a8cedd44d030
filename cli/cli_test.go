package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCLIEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENDIFY_CONFIG", filepath.Join(dir, "missing.yaml"))
	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("FALLBACK_PATH", filepath.Join(dir, "tasks.json"))
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("GOOGLE_CALENDAR_ENABLED", "false")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_TaskLifecycle(t *testing.T) {
	setupCLIEnv(t)

	out, err := run(t, "add", "History", "essay", "--subject", "History", "--teacher", "Ms. Ruiz", "--date", "2020-03-02", "--time", "08:00")
	require.NoError(t, err)
	assert.Contains(t, out, "History essay")

	out, err = run(t, "list", "ruiz")
	require.NoError(t, err)
	assert.Contains(t, out, "History essay")
	assert.Contains(t, out, "2020-03-02 08:00")

	out, err = run(t, "overdue")
	require.NoError(t, err)
	assert.Contains(t, out, "History essay")

	out, err = run(t, "list", "chemistry")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")

	// 2020-03-02 is a Monday
	out, err = run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Busiest day:       Monday (1 tasks)")
	assert.Contains(t, out, "Your workload is well distributed!")
}

func TestCLI_AddValidation(t *testing.T) {
	setupCLIEnv(t)

	_, err := run(t, "add", "Essay", "--date", "03/02/2020", "--time", "08:00")
	assert.Error(t, err)

	_, err = run(t, "add", "Essay", "--time", "08:00")
	assert.Error(t, err)
}

func TestCLI_UnknownTask(t *testing.T) {
	setupCLIEnv(t)

	_, err := run(t, "done", "42")
	assert.Error(t, err)

	_, err = run(t, "delete", "abc")
	assert.Error(t, err)
}

func TestCLI_Theme(t *testing.T) {
	setupCLIEnv(t)

	out, err := run(t, "theme")
	require.NoError(t, err)
	assert.Contains(t, out, "Theme: light")

	out, err = run(t, "theme", "dark")
	require.NoError(t, err)
	assert.Contains(t, out, "Theme: dark")

	_, err = run(t, "theme", "sepia")
	assert.Error(t, err)
}
