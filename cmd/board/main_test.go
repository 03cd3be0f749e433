package main

import (
	"errors"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runMainEnv = "BOARD_RUN_MAIN"

func TestMain(m *testing.M) {
	if os.Getenv(runMainEnv) == "1" {
		os.Args = []string{"board"}
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func TestMain_ExitsWhenStoreUnreachable(t *testing.T) {
	cmd := exec.Command(os.Args[0], "-test.run=^$")
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(),
		runMainEnv+"=1",
		"CONFIG_PATH=",
		"ENV=local",
		"STORAGE_DRIVER=mongo",
		"STORAGE_CONNECT_TIMEOUT=300ms",
		"MONGODB_URI=mongodb://127.0.0.1:1/board",
		"APM_ENABLED=false",
		"KAFKA_ENABLED=false",
		"HTTP_ADDRESS=127.0.0.1:0",
	)

	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "expected non-zero exit, got %v", err)
	assert.NotEqual(t, 0, exitErr.ExitCode())
	assert.Contains(t, string(out), "can't start application")
	assert.NotContains(t, string(out), "http server is listening")
}
