package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, extra string) (dir, envFile string) {
	t.Helper()
	dir = t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("users.csv", "Code,Name,Email,Password\n1,Suzuki,suzuki@example.com,pass1\n")
	write("tasks.csv", "Code,Name,Status,Rep_User_Code\n10,demo,0,1\n")
	write("test.env", fmt.Sprintf("DATA_DIR=%s\nLOG_LEVEL=error\n%s", dir, extra))

	// Variables already present in the environment win over the env file.
	for _, key := range []string{"DATA_DIR", "STORAGE_DRIVER", "USERS_FILE", "TASKS_FILE", "LOGS_FILE", "BOLT_PATH", "LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir, filepath.Join(dir, "test.env")
}

func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "taskapp version "+Version)
}

func TestConsoleSession(t *testing.T) {
	dir, envFile := writeEnv(t, "")

	out, err := execute(t, "suzuki@example.com\npass1\n1\n1\n10\n1\n2\n3\n", "--env-file", envFile)
	require.NoError(t, err)
	assert.Contains(t, out, "10. name: demo, responsible: you, status: unstarted")
	assert.Contains(t, out, "status change completed.")
	assert.Contains(t, out, "logged out.")

	tasks, err := os.ReadFile(filepath.Join(dir, "tasks.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Code,Name,Status,Rep_User_Code\n10,demo,1,1\n", string(tasks))
}

func TestConsoleEndOfInputIsClean(t *testing.T) {
	_, envFile := writeEnv(t, "")

	_, err := execute(t, "suzuki@example.com\n", "--env-file", envFile)
	assert.NoError(t, err)
}

func TestImportThenUseBolt(t *testing.T) {
	dir, envFile := writeEnv(t, "")

	out, err := execute(t, "", "--env-file", envFile, "import")
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 users, 1 tasks and 0 log entries")

	_, err = execute(t, "", "--env-file", envFile, "import")
	assert.ErrorContains(t, err, "already holds")

	boltEnv := filepath.Join(dir, "bolt.env")
	require.NoError(t, os.WriteFile(boltEnv, []byte(fmt.Sprintf("DATA_DIR=%s\nSTORAGE_DRIVER=bolt\nLOG_LEVEL=error\n", dir)), 0o644))
	out, err = execute(t, "suzuki@example.com\npass1\n1\n2\n3\n", "--env-file", boltEnv)
	require.NoError(t, err)
	assert.Contains(t, out, "10. name: demo, responsible: you, status: unstarted")
}

func TestServeRequiresSecret(t *testing.T) {
	_, envFile := writeEnv(t, "")
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	_, err := execute(t, "", "--env-file", envFile, "serve")
	assert.ErrorContains(t, err, "JWT_SECRET")
}
