package deploy_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamokano/site_pusher/pkg/deploy"
	"github.com/williamokano/site_pusher/pkg/remote"
	"github.com/williamokano/site_pusher/pkg/remote/local"
	"github.com/williamokano/site_pusher/pkg/shell"
)

const buildSite = `sh -c 'mkdir -p _site/css && printf "%s" "$PAGE" > _site/index.html && printf body > _site/css/site.css'`

func requireUnzip(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("unzip"); err != nil {
		t.Skip("unzip not available")
	}
}

func localConnector() deploy.Connector {
	return func(ctx context.Context) (remote.Channel, error) {
		return local.New(remote.Config{Name: "webhost"})
	}
}

func localConfig(t *testing.T) deploy.Config {
	t.Helper()
	return deploy.Config{
		Domain:       "harlanhaskins.com",
		Subdomain:    "www",
		WebRoot:      t.TempDir(),
		WorkDir:      t.TempDir(),
		BuildCommand: buildSite,
	}
}

func push(t *testing.T, cfg deploy.Config, page string) error {
	t.Helper()
	t.Setenv("PAGE", page)
	_, err := deploy.New(cfg, localConnector(), shell.ExecRunner{}, zerolog.Nop()).Push(context.Background())
	return err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestLocalPush_HappyPath(t *testing.T) {
	requireUnzip(t)
	cfg := localConfig(t)

	require.NoError(t, push(t, cfg, "v1"))

	live := filepath.Join(cfg.WebRoot, "harlanhaskins.com", "www")
	assert.Equal(t, "v1", readFile(t, filepath.Join(live, "index.html")))
	assert.Equal(t, "body", readFile(t, filepath.Join(live, "css", "site.css")))

	// Only the live directory and the uploaded archive remain under the domain
	assert.NoDirExists(t, filepath.Join(cfg.WebRoot, "harlanhaskins.com", "_site"))
	assert.FileExists(t, filepath.Join(cfg.WebRoot, "harlanhaskins.com", "_site.zip"))

	assert.NoDirExists(t, filepath.Join(cfg.WorkDir, "_site"))
	assert.NoFileExists(t, filepath.Join(cfg.WorkDir, "_site.zip"))
}

func TestLocalPush_Idempotent(t *testing.T) {
	requireUnzip(t)
	cfg := localConfig(t)
	live := filepath.Join(cfg.WebRoot, "harlanhaskins.com", "www")

	require.NoError(t, push(t, cfg, "v1"))

	// Content that is no longer part of the build must disappear
	require.NoError(t, os.WriteFile(filepath.Join(live, "old.html"), []byte("old"), 0644))

	require.NoError(t, push(t, cfg, "v2"))

	assert.Equal(t, "v2", readFile(t, filepath.Join(live, "index.html")))
	assert.NoFileExists(t, filepath.Join(live, "old.html"))

	entries, err := os.ReadDir(filepath.Join(cfg.WebRoot, "harlanhaskins.com"))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"_site.zip", "www"}, names)
}

func TestLocalPush_StaleRemoteArtefacts(t *testing.T) {
	requireUnzip(t)
	cfg := localConfig(t)
	domainDir := filepath.Join(cfg.WebRoot, "harlanhaskins.com")

	// Leftovers from an interrupted push
	require.NoError(t, os.MkdirAll(filepath.Join(domainDir, "_site"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(domainDir, "_site", "stale.html"), []byte("stale"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(domainDir, "_site.zip"), []byte("not a zip"), 0644))

	require.NoError(t, push(t, cfg, "fresh"))

	live := filepath.Join(domainDir, "www")
	assert.Equal(t, "fresh", readFile(t, filepath.Join(live, "index.html")))
	assert.NoFileExists(t, filepath.Join(live, "stale.html"))
}

func TestLocalPush_BuildFailureTouchesNothing(t *testing.T) {
	cfg := localConfig(t)
	cfg.BuildCommand = "sh -c 'echo broken >&2; exit 2'"

	live := filepath.Join(cfg.WebRoot, "harlanhaskins.com", "www")
	require.NoError(t, os.MkdirAll(live, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(live, "index.html"), []byte("current"), 0644))

	err := push(t, cfg, "")

	var stepErr *deploy.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 1, stepErr.Index)

	var exitErr *shell.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.ExitCode)
	assert.Contains(t, exitErr.Output, "broken")

	assert.Equal(t, "current", readFile(t, filepath.Join(live, "index.html")))
	assert.NoFileExists(t, filepath.Join(cfg.WebRoot, "harlanhaskins.com", "_site.zip"))
}

// corruptingChannel uploads garbage in place of the archive so the real unzip fails
type corruptingChannel struct {
	remote.Channel
}

func (c corruptingChannel) Put(ctx context.Context, localPath, remotePath string) error {
	if err := c.Channel.Put(ctx, localPath, remotePath); err != nil {
		return err
	}
	return os.WriteFile(remotePath, []byte("truncated"), 0644)
}

func TestLocalPush_ExtractFailureKeepsLiveSite(t *testing.T) {
	requireUnzip(t)
	cfg := localConfig(t)
	t.Setenv("PAGE", "new")

	live := filepath.Join(cfg.WebRoot, "harlanhaskins.com", "www")
	require.NoError(t, os.MkdirAll(live, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(live, "index.html"), []byte("current"), 0644))

	connect := func(ctx context.Context) (remote.Channel, error) {
		ch, err := local.New(remote.Config{})
		if err != nil {
			return nil, err
		}
		return corruptingChannel{ch}, nil
	}

	_, err := deploy.New(cfg, connect, shell.ExecRunner{}, zerolog.Nop()).Push(context.Background())

	var stepErr *deploy.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 6, stepErr.Index)
	assert.Equal(t, deploy.StepExtract, stepErr.Step)
	assert.Greater(t, remote.ExitStatus(err), 0)

	assert.Equal(t, "current", readFile(t, filepath.Join(live, "index.html")))
}
