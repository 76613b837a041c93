package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/williamokano/site_pusher/pkg/deploy"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the deploy steps without running them",
	Long:  `Print the eight deploy steps, with the exact commands, for the current configuration.`,
	Args:  cobra.NoArgs,
	RunE:  runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dc := cfg.DeployConfig(false)
	steps, err := deploy.Plan(dc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Deploying to %s via %s\n\n", dc.DeploymentPath(), cfg.GetTransport())
	for _, step := range steps {
		fmt.Fprintln(out, step.Describe())
	}
	return nil
}
