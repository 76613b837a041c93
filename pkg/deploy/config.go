package deploy

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/williamokano/site_pusher/pkg/shell"
)

const (
	DefaultWebRoot      = "/var/www"
	DefaultOutputDir    = "_site"
	DefaultArchiveName  = "_site.zip"
	DefaultBuildCommand = "jekyll build"
)

// Config holds everything a single push needs. It is read once and never mutated.
type Config struct {
	Domain       string // Directory under the web root, e.g. "harlanhaskins.com"
	Subdomain    string // Live directory name under the domain, e.g. "www"
	WebRoot      string // Remote web root, default /var/www
	OutputDir    string // Local build output directory, default _site
	ArchiveName  string // Local archive file name, default _site.zip
	BuildCommand string // Shell-quoted build command, default "jekyll build"
	WorkDir      string // Local directory the build runs in, default current directory
	DryRun       bool   // Log the plan without touching anything
}

// WithDefaults returns a copy of c with empty fields set to their defaults
func (c Config) WithDefaults() Config {
	if c.WebRoot == "" {
		c.WebRoot = DefaultWebRoot
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.ArchiveName == "" {
		c.ArchiveName = DefaultArchiveName
	}
	if c.BuildCommand == "" {
		c.BuildCommand = DefaultBuildCommand
	}
	if c.WorkDir == "" {
		c.WorkDir = "."
	}
	return c
}

// Validate checks a defaulted config. Every name that ends up in a remote path
// must be a single path segment so that no command can reach outside the domain directory.
func (c Config) Validate() error {
	var problems []string

	segments := []struct {
		field string
		value string
	}{
		{"domain", c.Domain},
		{"subdomain", c.Subdomain},
		{"output_dir", c.OutputDir},
		{"archive_name", c.ArchiveName},
	}
	for _, s := range segments {
		if err := validateSegment(s.value); err != nil {
			problems = append(problems, fmt.Sprintf("  - %s: %v", s.field, err))
		}
	}

	if !path.IsAbs(c.WebRoot) {
		problems = append(problems, fmt.Sprintf("  - web_root: must be an absolute path, got %q", c.WebRoot))
	}

	if c.Subdomain != "" && c.Subdomain == c.OutputDir {
		problems = append(problems, "  - subdomain: must differ from output_dir")
	}
	if c.Subdomain != "" && c.Subdomain == c.ArchiveName {
		problems = append(problems, "  - subdomain: must differ from archive_name")
	}
	if c.OutputDir != "" && c.OutputDir == c.ArchiveName {
		problems = append(problems, "  - archive_name: must differ from output_dir")
	}

	if _, err := shell.ParseCommand(c.BuildCommand); err != nil {
		problems = append(problems, fmt.Sprintf("  - build_command: %v", err))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid deploy configuration:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}

func validateSegment(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("cannot be empty")
	case name == "." || name == "..":
		return fmt.Errorf("cannot be %q", name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("must be a single path segment, got %q", name)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("cannot start with '-'")
	}
	return nil
}

// DomainDir is <webRoot>/<domain>, the directory every remote command works in
func (c Config) DomainDir() string {
	return path.Join(c.WebRoot, c.Domain)
}

// DeploymentPath is the live directory the site is served from
func (c Config) DeploymentPath() string {
	return path.Join(c.DomainDir(), c.Subdomain)
}

// RemoteArchivePath is where the archive is uploaded
func (c Config) RemoteArchivePath() string {
	return path.Join(c.DomainDir(), c.ArchiveName)
}

// RemoteExtractedDir is the directory unzip produces next to the live directory
func (c Config) RemoteExtractedDir() string {
	return path.Join(c.DomainDir(), c.OutputDir)
}

// LocalOutputDir is the build output directory on this machine
func (c Config) LocalOutputDir() string {
	return filepath.Join(c.WorkDir, c.OutputDir)
}

// LocalArchivePath is the archive file on this machine
func (c Config) LocalArchivePath() string {
	return filepath.Join(c.WorkDir, c.ArchiveName)
}
