package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"testing"

	"github.com/Adda-Baaj/userpost/internal/usersapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runMainEnv = "USERPOST_RUN_MAIN"

// closedUsersURL returns a users URL on a port nothing listens on anymore.
func closedUsersURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + usersapi.Route
	srv.Close()
	return url
}

func TestRunPrintsExchangeFromUsersAPI(t *testing.T) {
	api := usersapi.New()
	srv := httptest.NewServer(api)
	defer srv.Close()

	t.Setenv("TARGET_URL", srv.URL+usersapi.Route)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("PUBLISHERS_FILE", "")

	var stdout bytes.Buffer
	require.NoError(t, run(&stdout))
	assert.Equal(t, "Status Code: 400\nResponse Body: \n", stdout.String())
	assert.Len(t, api.Requests(), 1)
}

func TestRunReturnsTransportErrorWithoutOutput(t *testing.T) {
	url := closedUsersURL(t)
	t.Setenv("TARGET_URL", url)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("PUBLISHERS_FILE", "")

	var stdout bytes.Buffer
	err := run(&stdout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post "+url)
	assert.Empty(t, stdout.String())
}

func TestRunRejectsInvalidTargetURL(t *testing.T) {
	t.Setenv("TARGET_URL", "ftp://localhost/api/users")
	t.Setenv("LOG_LEVEL", "error")

	var stdout bytes.Buffer
	err := run(&stdout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
	assert.Empty(t, stdout.String())
}

// TestMainExitsOnTransportFailure re-executes the test binary so main can call os.Exit.
func TestMainExitsOnTransportFailure(t *testing.T) {
	if os.Getenv(runMainEnv) == "1" {
		main()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestMainExitsOnTransportFailure$")
	cmd.Env = append(os.Environ(),
		runMainEnv+"=1",
		"TARGET_URL="+closedUsersURL(t),
		"LOG_LEVEL=error",
		"PUBLISHERS_FILE=",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "expected non-zero exit, got %v", err)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, stderr.String(), "userpost failed: ")
	assert.Contains(t, stderr.String(), "post http://")
	assert.Empty(t, stdout.String())
}
