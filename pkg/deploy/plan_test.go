package deploy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamokano/site_pusher/pkg/deploy"
)

func TestPlan_Order(t *testing.T) {
	steps, err := deploy.Plan(deploy.Config{
		Domain:    "harlanhaskins.com",
		Subdomain: "www",
		WorkDir:   "/home/harlan/site",
	})
	require.NoError(t, err)
	require.Len(t, steps, 8)

	names := make([]deploy.StepName, 0, len(steps))
	for i, step := range steps {
		assert.Equal(t, i+1, step.Index)
		names = append(names, step.Name)
	}
	assert.Equal(t, []deploy.StepName{
		deploy.StepBuild,
		deploy.StepArchive,
		deploy.StepRemoteClean,
		deploy.StepTransfer,
		deploy.StepLocalCleanup,
		deploy.StepExtract,
		deploy.StepRemoveLive,
		deploy.StepActivate,
	}, names)

	assert.Equal(t, []string{"jekyll", "build"}, steps[0].Args)
	assert.Equal(t, deploy.KindLocal, steps[0].Kind)

	assert.Equal(t, "/home/harlan/site/_site", steps[1].Source)
	assert.Equal(t, "/home/harlan/site/_site.zip", steps[1].Dest)

	assert.Equal(t, deploy.KindRemote, steps[2].Kind)
	assert.Equal(t, []string{
		"rm -f /var/www/harlanhaskins.com/_site.zip",
		"rm -rf /var/www/harlanhaskins.com/_site",
	}, steps[2].Commands)

	assert.Equal(t, "/home/harlan/site/_site.zip", steps[3].Source)
	assert.Equal(t, "/var/www/harlanhaskins.com/_site.zip", steps[3].Dest)

	assert.Equal(t, []string{"/home/harlan/site/_site", "/home/harlan/site/_site.zip"}, steps[4].Paths)

	assert.Equal(t, []string{"unzip /var/www/harlanhaskins.com/_site.zip -d /var/www/harlanhaskins.com"}, steps[5].Commands)
	assert.Equal(t, []string{"rm -rf /var/www/harlanhaskins.com/www"}, steps[6].Commands)
	assert.Equal(t, []string{"mv /var/www/harlanhaskins.com/_site /var/www/harlanhaskins.com/www"}, steps[7].Commands)
}

func TestPlan_QuotesRemotePaths(t *testing.T) {
	steps, err := deploy.Plan(deploy.Config{
		Domain:       "example.com",
		Subdomain:    "blog",
		WebRoot:      "/srv/my sites",
		OutputDir:    "public",
		ArchiveName:  "public.zip",
		BuildCommand: "hugo --minify",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"hugo", "--minify"}, steps[0].Args)
	assert.Equal(t, "rm -f '/srv/my sites/example.com/public.zip'", steps[2].Commands[0])
	assert.Equal(t, "rm -rf '/srv/my sites/example.com/public'", steps[2].Commands[1])
	assert.Equal(t, "mv '/srv/my sites/example.com/public' '/srv/my sites/example.com/blog'", steps[7].Commands[0])
}

func TestPlan_Invalid(t *testing.T) {
	base := deploy.Config{Domain: "example.com", Subdomain: "www"}

	tests := []struct {
		name    string
		mutate  func(c *deploy.Config)
		wantErr string
	}{
		{"missing domain", func(c *deploy.Config) { c.Domain = "" }, "domain: cannot be empty"},
		{"missing subdomain", func(c *deploy.Config) { c.Subdomain = "" }, "subdomain: cannot be empty"},
		{"domain traversal", func(c *deploy.Config) { c.Domain = ".." }, "domain: cannot be"},
		{"subdomain with slash", func(c *deploy.Config) { c.Subdomain = "www/../../etc" }, "single path segment"},
		{"option-like subdomain", func(c *deploy.Config) { c.Subdomain = "-rf" }, "cannot start with '-'"},
		{"relative web root", func(c *deploy.Config) { c.WebRoot = "var/www" }, "web_root: must be an absolute path"},
		{"subdomain equals output dir", func(c *deploy.Config) { c.Subdomain = "_site" }, "must differ from output_dir"},
		{"archive equals output dir", func(c *deploy.Config) { c.ArchiveName = "_site" }, "archive_name: must differ"},
		{"unbalanced build command", func(c *deploy.Config) { c.BuildCommand = "jekyll 'build" }, "build_command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)

			steps, err := deploy.Plan(cfg)
			require.Error(t, err)
			assert.Nil(t, steps)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStep_Describe(t *testing.T) {
	steps, err := deploy.Plan(deploy.Config{Domain: "example.com", Subdomain: "www", WorkDir: "/src"})
	require.NoError(t, err)

	assert.Equal(t, "1. build [local] jekyll build", steps[0].Describe())
	assert.Equal(t, "2. archive [local] zip /src/_site -> /src/_site.zip", steps[1].Describe())
	assert.Equal(t, "3. remote-clean [remote] rm -f /var/www/example.com/_site.zip; rm -rf /var/www/example.com/_site", steps[2].Describe())
	assert.Equal(t, "4. transfer [remote] put /src/_site.zip -> /var/www/example.com/_site.zip", steps[3].Describe())
	assert.Equal(t, "5. local-cleanup [local] remove /src/_site; remove /src/_site.zip", steps[4].Describe())
}

func TestConfig_Paths(t *testing.T) {
	cfg := deploy.Config{Domain: "harlanhaskins.com", Subdomain: "www"}.WithDefaults()

	assert.Equal(t, "/var/www/harlanhaskins.com", cfg.DomainDir())
	assert.Equal(t, "/var/www/harlanhaskins.com/www", cfg.DeploymentPath())
	assert.Equal(t, "/var/www/harlanhaskins.com/_site.zip", cfg.RemoteArchivePath())
	assert.Equal(t, "/var/www/harlanhaskins.com/_site", cfg.RemoteExtractedDir())
	assert.Equal(t, "_site", cfg.LocalOutputDir())
	assert.Equal(t, "_site.zip", cfg.LocalArchivePath())
}
