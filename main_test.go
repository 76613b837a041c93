package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestPlanCommand(t *testing.T) {
	out, err := execute(t, "plan", "--domain", "harlanhaskins.com", "--subdomain", "www", "--log-level", "error")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "Deploying to /var/www/harlanhaskins.com/www via ssh", lines[0])
	assert.Equal(t, "1. build [local] jekyll build", lines[2])
	assert.Equal(t, "3. remote-clean [remote] rm -f /var/www/harlanhaskins.com/_site.zip; rm -rf /var/www/harlanhaskins.com/_site", lines[4])
	assert.Equal(t, "8. activate [remote] mv /var/www/harlanhaskins.com/_site /var/www/harlanhaskins.com/www", lines[9])
}

func TestPlanCommand_Invalid(t *testing.T) {
	_, err := execute(t, "plan", "--domain", "harlanhaskins.com", "--subdomain", "../etc", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single path segment")
}

func TestPushCommand_RequiresHost(t *testing.T) {
	_, err := execute(t, "push", "--domain", "harlanhaskins.com", "--subdomain", "www", "--host", "", "--user", "harlan", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote_host: required")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "site_pusher version dev")
}
