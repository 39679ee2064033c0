package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/posixid/internal/cli/prompt"
)

type env struct {
	dir    string
	config string
	passwd string
	group  string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	e := &env{
		dir:    dir,
		config: filepath.Join(dir, "config.yaml"),
		passwd: filepath.Join(dir, "passwd"),
		group:  filepath.Join(dir, "group"),
	}

	cfg := fmt.Sprintf(`
source:
  type: database
  files:
    passwd: %s
    group: %s
  database:
    type: sqlite
    sqlite:
      path: %s
`, e.passwd, e.group, filepath.Join(dir, "identity.db"))
	require.NoError(t, os.WriteFile(e.config, []byte(cfg), 0644))

	require.NoError(t, os.WriteFile(e.passwd, []byte(
		"root:x:0:0:root:/root:/bin/sh\n"+
			"# comment\n"+
			"alice:x:1000:1000:Alice:/home/alice:/bin/sh\n"+
			"bob:x:1001:1001::/home/bob:/bin/sh\n"), 0644))
	require.NoError(t, os.WriteFile(e.group, []byte(
		"root:x:0:\n"+
			"wheel:x:10:bob,alice\n"+
			"alice:x:1000:\n"+
			"docker:x:999:alice\n"), 0644))
	return e
}

func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestImportAndList(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "users")
	require.NoError(t, err)
	assert.Equal(t, "No users found.\n", out)

	out, err = e.run(t, "import", "-o", "json")
	require.NoError(t, err)
	var result struct {
		Accounts int `json:"accounts"`
		Groups   int `json:"groups"`
		Members  int `json:"members"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result.Accounts)
	assert.Equal(t, 4, result.Groups)
	assert.Equal(t, 3, result.Members)

	out, err = e.run(t, "users", "-o", "json")
	require.NoError(t, err)
	var users []struct {
		Name string `json:"name"`
		UID  uint32 `json:"uid"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &users))
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[1].Name)
	assert.Equal(t, uint32(1001), users[2].UID)

	out, err = e.run(t, "groups", "-o", "json")
	require.NoError(t, err)
	var groups []struct {
		Name    string   `json:"name"`
		Members []string `json:"members"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	require.Len(t, groups, 4)
	assert.Equal(t, "wheel", groups[1].Name)
	assert.Equal(t, []string{"bob", "alice"}, groups[1].Members)

	out, err = e.run(t, "groups")
	require.NoError(t, err)
	assert.Contains(t, out, "MEMBERS")
	assert.Contains(t, out, "bob, alice")
}

func TestImportReplaces(t *testing.T) {
	e := newEnv(t)

	orig := confirmReplace
	confirmReplace = func(label string, force bool) (bool, error) {
		if force {
			return true, nil
		}
		return false, prompt.ErrNotInteractive
	}
	t.Cleanup(func() { confirmReplace = orig })

	_, err := e.run(t, "import")
	require.NoError(t, err)

	other := filepath.Join(e.dir, "passwd.other")
	require.NoError(t, os.WriteFile(other, []byte("carol:x:1002:1002::/:/bin/sh\n"), 0644))

	_, err = e.run(t, "import", "--passwd", other)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use --force")

	out, err := e.run(t, "import", "--force", "--passwd", other)
	require.NoError(t, err)
	assert.Contains(t, out, "Accounts")

	out, err = e.run(t, "users", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: carol")
	assert.NotContains(t, out, "alice")
}

func TestImportDeclined(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "import")
	require.NoError(t, err)

	orig := confirmReplace
	confirmReplace = func(string, bool) (bool, error) { return false, nil }
	t.Cleanup(func() { confirmReplace = orig })

	_, err = e.run(t, "import")
	assert.ErrorIs(t, err, prompt.ErrAborted)
}

func TestImportMissingFile(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "import", "--group", filepath.Join(e.dir, "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read groups")
}

func TestListRejectsText(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "users", "-o", "text")
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Validation: OK")
	assert.Contains(t, out, "Database type:   sqlite")

	out, err = e.run(t, "config", "show", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"policy": "members"`)

	out, err = e.run(t, "config", "schema")
	require.NoError(t, err)
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "posixid Configuration", schema["title"])
	assert.Contains(t, out, `"policy"`)
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "new", "config.yaml")

	run := func(args ...string) error {
		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs(append([]string{"--config", path}, args...))
		return cmd.Execute()
	}

	require.NoError(t, run("config", "init"))
	assert.FileExists(t, path)
	assert.Error(t, run("config", "init"))
	require.NoError(t, run("config", "init", "--force"))
	require.NoError(t, run("config", "validate"))
}
