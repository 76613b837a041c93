package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/williamokano/site_pusher/pkg/deploy"
	"github.com/williamokano/site_pusher/pkg/logger"
	"github.com/williamokano/site_pusher/pkg/remote"
	"github.com/williamokano/site_pusher/pkg/shell"

	// Import channels to register them
	_ "github.com/williamokano/site_pusher/pkg/remote/local"
	_ "github.com/williamokano/site_pusher/pkg/remote/ssh"
)

var dryRun bool

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Build the site and deploy it",
	Long: `Build the site, archive the output, upload it and swap it into the live directory.

Steps run strictly in order and the first failure aborts the push with a non-zero exit status.`,
	SilenceUsage: true,
	RunE:         runPush,
}

func init() {
	pushCmd.Flags().BoolVar(&dryRun, "dry-run", os.Getenv("SITE_PUSHER_DRY_RUN") == "1", "Log every step without executing anything")
}

func runPush(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Get()

	channelCfg, err := cfg.ChannelConfig(os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	factory := remote.NewFactory()
	connect := func(ctx context.Context) (remote.Channel, error) {
		log.Info().
			Str("transport", channelCfg.Type).
			Str("channel", channelCfg.Name).
			Msg("connecting")
		return factory.Create(ctx, channelCfg)
	}

	procedure := deploy.New(
		cfg.DeployConfig(dryRun),
		connect,
		shell.ExecRunner{},
		log.With().Str("component", "deploy").Logger(),
		deploy.WithOutput(os.Stdout),
	)

	result, err := procedure.Push(ctx)
	if err != nil {
		ev := log.Error().Err(err)
		var cmdErr *remote.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Output != "" {
			ev = ev.Str("output", cmdErr.Output)
		}
		var exitErr *shell.ExitError
		if errors.As(err, &exitErr) {
			ev = ev.Int("exit_code", exitErr.ExitCode)
		}
		ev.Msg("deployment failed")
		return err
	}

	log.Info().
		Str("deployment_path", result.DeploymentPath).
		Bool("dry_run", result.DryRun).
		Dur("duration", result.Duration).
		Msg("site pushed")

	return nil
}
