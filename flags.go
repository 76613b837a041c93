package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/williamokano/site_pusher/pkg/config"
	"github.com/williamokano/site_pusher/pkg/logger"
)

// Values set on the command line win over SITE_PUSHER_* variables, which win over the config file
var opts struct {
	configFile   string
	user         string
	host         string
	port         int
	domain       string
	subdomain    string
	webRoot      string
	outputDir    string
	archiveName  string
	buildCommand string
	workDir      string
	transport    string
	keyPath      string
	knownHosts   string
	insecure     bool
	logLevel     string
	logFormat    string
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&opts.configFile, "config", "c", os.Getenv("SITE_PUSHER_CONFIG"), "Path to site_pusher.yaml (default: search ./, ./config/, ~/.config/site_pusher/)")
	f.StringVarP(&opts.user, "user", "u", "", "Remote user")
	f.StringVarP(&opts.host, "host", "H", "", "Remote host")
	f.IntVar(&opts.port, "port", 0, "SSH port (default 22)")
	f.StringVar(&opts.domain, "domain", "", "Domain directory under the web root")
	f.StringVar(&opts.subdomain, "subdomain", "", "Live directory under the domain directory")
	f.StringVar(&opts.webRoot, "web-root", "", "Remote web root (default /var/www)")
	f.StringVar(&opts.outputDir, "output-dir", "", "Build output directory (default _site)")
	f.StringVar(&opts.archiveName, "archive-name", "", "Archive file name (default _site.zip)")
	f.StringVar(&opts.buildCommand, "build-command", "", "Build command (default \"jekyll build\")")
	f.StringVar(&opts.workDir, "work-dir", "", "Directory the build runs in (default .)")
	f.StringVar(&opts.transport, "transport", "", "Remote channel: ssh or local (default ssh)")
	f.StringVar(&opts.keyPath, "key", "", "SSH private key file")
	f.StringVar(&opts.knownHosts, "known-hosts", "", "known_hosts file (default ~/.ssh/known_hosts)")
	f.BoolVar(&opts.insecure, "insecure-ignore-host-key", false, "Skip host key verification")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (default info)")
	f.StringVar(&opts.logFormat, "log-format", "", "console or json (default console)")
}

func applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	stringFlags := map[string]struct {
		value *string
		field *string
	}{
		"user":          {&opts.user, &cfg.RemoteUser},
		"host":          {&opts.host, &cfg.RemoteHost},
		"domain":        {&opts.domain, &cfg.Domain},
		"subdomain":     {&opts.subdomain, &cfg.Subdomain},
		"web-root":      {&opts.webRoot, &cfg.WebRoot},
		"output-dir":    {&opts.outputDir, &cfg.OutputDir},
		"archive-name":  {&opts.archiveName, &cfg.ArchiveName},
		"build-command": {&opts.buildCommand, &cfg.BuildCommand},
		"work-dir":      {&opts.workDir, &cfg.WorkDir},
		"transport":     {&opts.transport, &cfg.Transport},
		"key":           {&opts.keyPath, &cfg.KeyPath},
		"known-hosts":   {&opts.knownHosts, &cfg.KnownHosts},
		"log-level":     {&opts.logLevel, &cfg.LogLevel},
		"log-format":    {&opts.logFormat, &cfg.LogFormat},
	}
	for name, f := range stringFlags {
		if flags.Changed(name) {
			*f.field = *f.value
		}
	}

	if flags.Changed("port") {
		cfg.Port = opts.port
	}
	if flags.Changed("insecure-ignore-host-key") {
		cfg.InsecureIgnoreHostKey = opts.insecure
	}
}

// loadConfig merges the config file, the environment and flags, then sets up logging
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, path, err := config.Load(opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	applyFlags(cmd.Flags(), cfg)

	logger.Init(cfg.GetLogLevel(), cfg.GetLogFormat())
	if path != "" {
		logger.Get().Debug().Str("config_file", path).Msg("loaded configuration")
	}

	return cfg, nil
}
