package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/homelab/adh/internal/api"
	"github.com/jbweber/homelab/adh/internal/logging"
	"github.com/jbweber/homelab/adh/internal/notify"
	"github.com/jbweber/homelab/adh/internal/testutil"
)

// writeTestConfig points the database at a fresh file under t.TempDir.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("database:\n  path: %s\n  wal_mode: false\n  busy_timeout: 5\nlogging:\n  level: error\n",
		filepath.Join(dir, "adh.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrate_UpAndDown(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := run(t, "--config", cfg, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema at version 2")

	out, err = run(t, "--config", cfg, "migrate", "--down")
	require.NoError(t, err)
	assert.Contains(t, out, "schema at version 1")
}

func TestMemberCommands(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := run(t, "--config", cfg, "member", "add", "jdoe", "--name", "Doe", "--first-name", "Jane", "--email", "jdoe@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "no password set")
	assert.Contains(t, out, "member jdoe created")

	_, err = run(t, "--config", cfg, "member", "add", "jdoe")
	assert.Error(t, err)

	out, err = run(t, "--config", cfg, "member", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1 member(s)")
	assert.Contains(t, out, "jdoe@example.com")

	out, err = run(t, "--config", cfg, "member", "delete", "jdoe")
	require.NoError(t, err)
	assert.Contains(t, out, "member jdoe deleted")

	_, err = run(t, "--config", cfg, "member", "delete", "jdoe")
	assert.Error(t, err)
}

func TestMemberAdd_HashesPassword(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := run(t, "--config", cfg, "member", "add", "secure", "--password", "hunter2")
	require.NoError(t, err)
	assert.NotContains(t, out, "no password set")
	assert.NotContains(t, out, "hunter2")
}

func TestRoomCommands(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := run(t, "--config", cfg, "room", "add", "5110", "--description", "Batiment U", "--phone", "4242")
	require.NoError(t, err)
	assert.Contains(t, out, "room 5110 created")

	_, err = run(t, "--config", cfg, "room", "add", "abc")
	assert.Error(t, err)

	out, err = run(t, "--config", cfg, "room", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1 room(s)")
	assert.Contains(t, out, "Batiment U")
}

func TestNewRouter(t *testing.T) {
	ds, cleanup := testutil.SetupTestDatastore(t, t.Name())
	defer cleanup()

	a := api.NewAPI(ds, nil, notify.Nop{}, logging.Discard())
	defer a.Close()
	router := newRouter(a, logging.Discard())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/switch/?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
