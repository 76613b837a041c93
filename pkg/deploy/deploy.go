package deploy

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/williamokano/site_pusher/pkg/archive"
	"github.com/williamokano/site_pusher/pkg/remote"
	"github.com/williamokano/site_pusher/pkg/shell"
)

// Connector opens the remote channel. It is called at most once per push,
// right before the first remote step.
type Connector func(ctx context.Context) (remote.Channel, error)

// StepResult records one completed (or, in a dry run, skipped) step
type StepResult struct {
	Index    int
	Name     StepName
	Kind     StepKind
	Skipped  bool
	Duration time.Duration
}

// Result represents the outcome of a push
type Result struct {
	DeploymentPath string
	DryRun         bool
	Steps          []StepResult
	Archive        *archive.Summary // nil until the archive step has run
	Duration       time.Duration
}

// Procedure pushes a built site to a web server
type Procedure struct {
	cfg     Config
	connect Connector
	runner  shell.Runner
	logger  zerolog.Logger
	output  io.Writer

	channel remote.Channel
}

// Option customises a Procedure
type Option func(*Procedure)

// WithOutput streams build output to w as it is produced
func WithOutput(w io.Writer) Option {
	return func(p *Procedure) {
		p.output = w
	}
}

// New creates a new deploy procedure
func New(cfg Config, connect Connector, runner shell.Runner, logger zerolog.Logger, opts ...Option) *Procedure {
	if runner == nil {
		runner = shell.ExecRunner{}
	}

	p := &Procedure{
		cfg:     cfg.WithDefaults(),
		connect: connect,
		runner:  runner,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Push runs the eight deploy steps in order and stops at the first failure.
// Failures are returned as *StepError; there is no retry and no rollback.
func (p *Procedure) Push(ctx context.Context) (*Result, error) {
	start := time.Now()

	steps, err := Plan(p.cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{
		DeploymentPath: p.cfg.DeploymentPath(),
		DryRun:         p.cfg.DryRun,
		Steps:          make([]StepResult, 0, len(steps)),
	}

	defer p.closeChannel()

	log := p.logger.With().
		Str("domain", p.cfg.Domain).
		Str("subdomain", p.cfg.Subdomain).
		Logger()

	log.Info().
		Str("deployment_path", result.DeploymentPath).
		Bool("dry_run", p.cfg.DryRun).
		Msg("starting deployment")

	for _, step := range steps {
		stepLog := log.With().
			Int("step", step.Index).
			Str("name", string(step.Name)).
			Str("kind", string(step.Kind)).
			Logger()

		if err := ctx.Err(); err != nil {
			stepLog.Error().Err(err).Msg("deployment cancelled")
			result.Duration = time.Since(start)
			return result, &StepError{Index: step.Index, Step: step.Name, Err: err}
		}

		if p.cfg.DryRun {
			stepLog.Info().Str("action", step.Describe()).Msg("dry run: skipping step")
			result.Steps = append(result.Steps, StepResult{
				Index:   step.Index,
				Name:    step.Name,
				Kind:    step.Kind,
				Skipped: true,
			})
			continue
		}

		stepLog.Info().Str("action", step.Describe()).Msg("starting step")
		stepStart := time.Now()

		if err := p.execute(ctx, step, result); err != nil {
			ev := stepLog.Error().Err(err)
			if status := remote.ExitStatus(err); status >= 0 {
				ev = ev.Int("exit_status", status)
			}
			ev.Msg("step failed")

			result.Duration = time.Since(start)
			return result, &StepError{Index: step.Index, Step: step.Name, Err: err}
		}

		stepResult := StepResult{
			Index:    step.Index,
			Name:     step.Name,
			Kind:     step.Kind,
			Duration: time.Since(stepStart),
		}
		result.Steps = append(result.Steps, stepResult)

		stepLog.Info().Dur("duration", stepResult.Duration).Msg("step completed")
	}

	result.Duration = time.Since(start)
	log.Info().
		Str("deployment_path", result.DeploymentPath).
		Dur("duration", result.Duration).
		Msg("deployment completed")

	return result, nil
}

func (p *Procedure) execute(ctx context.Context, step Step, result *Result) error {
	switch step.Name {
	case StepBuild:
		return p.build(ctx, step)

	case StepArchive:
		summary, err := archive.ZipDir(ctx, step.Source, step.Dest)
		if err != nil {
			return err
		}
		result.Archive = summary
		p.logger.Debug().
			Int("files", summary.Files).
			Int("dirs", summary.Dirs).
			Int64("bytes", summary.Bytes).
			Str("archive", summary.Path).
			Msg("archive created")
		return nil

	case StepLocalCleanup:
		return p.cleanupLocal(step)

	case StepTransfer:
		ch, err := p.remoteChannel(ctx)
		if err != nil {
			return err
		}
		return ch.Put(ctx, step.Source, step.Dest)

	default:
		ch, err := p.remoteChannel(ctx)
		if err != nil {
			return err
		}
		for _, command := range step.Commands {
			res, err := ch.Run(ctx, command)
			if err != nil {
				return err
			}
			p.logger.Debug().
				Str("command", command).
				Dur("duration", res.Duration).
				Msg("remote command completed")
		}
		return nil
	}
}

func (p *Procedure) build(ctx context.Context, step Step) error {
	res, err := p.runner.Run(ctx, shell.ExecOptions{
		Dir:    p.cfg.WorkDir,
		Output: p.output,
	}, step.Args)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	p.logger.Debug().
		Int("exit_code", res.ExitCode).
		Dur("duration", res.Duration).
		Msg("build completed")
	return nil
}

// cleanupLocal removes the output directory and then the archive. A missing archive
// is an error, the same as a plain rm would report.
func (p *Procedure) cleanupLocal(step Step) error {
	dir, archivePath := step.Paths[0], step.Paths[1]

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	if err := os.Remove(archivePath); err != nil {
		return fmt.Errorf("failed to remove %s: %w", archivePath, err)
	}
	return nil
}

func (p *Procedure) remoteChannel(ctx context.Context) (remote.Channel, error) {
	if p.channel != nil {
		return p.channel, nil
	}
	if p.connect == nil {
		return nil, fmt.Errorf("%w: no remote connector configured", remote.ErrInvalidConfig)
	}

	ch, err := p.connect(ctx)
	if err != nil {
		return nil, err
	}

	p.logger.Debug().
		Str("channel", ch.Name()).
		Str("type", ch.Type()).
		Msg("remote channel opened")

	p.channel = ch
	return ch, nil
}

func (p *Procedure) closeChannel() {
	if p.channel == nil {
		return
	}
	if err := p.channel.Close(); err != nil {
		p.logger.Warn().Err(err).Msg("failed to close remote channel")
	}
	p.channel = nil
}
