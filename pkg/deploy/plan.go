package deploy

import (
	"fmt"
	"strings"

	"github.com/williamokano/site_pusher/pkg/shell"
)

// StepName identifies one of the eight deploy steps
type StepName string

const (
	StepBuild        StepName = "build"
	StepArchive      StepName = "archive"
	StepRemoteClean  StepName = "remote-clean"
	StepTransfer     StepName = "transfer"
	StepLocalCleanup StepName = "local-cleanup"
	StepExtract      StepName = "extract"
	StepRemoveLive   StepName = "remove-live"
	StepActivate     StepName = "activate"
)

// StepKind says where a step has its side effects
type StepKind string

const (
	KindLocal  StepKind = "local"
	KindRemote StepKind = "remote"
)

// Step is one planned unit of work. Which fields are set depends on Name.
type Step struct {
	Index int // 1-based position in the plan
	Name  StepName
	Kind  StepKind

	Args     []string // build: the parsed build command
	Commands []string // remote-clean, extract, remove-live, activate: remote shell command lines
	Source   string   // archive: output dir; transfer: local archive
	Dest     string   // archive: local archive; transfer: remote archive path
	Paths    []string // local-cleanup: paths removed, in order
}

// Describe renders the step the way an operator would type it
func (s Step) Describe() string {
	var actions []string
	switch s.Name {
	case StepBuild:
		actions = append(actions, shell.FormatCommand(s.Args))
	case StepArchive:
		actions = append(actions, fmt.Sprintf("zip %s -> %s", s.Source, s.Dest))
	case StepTransfer:
		actions = append(actions, fmt.Sprintf("put %s -> %s", s.Source, s.Dest))
	case StepLocalCleanup:
		for _, p := range s.Paths {
			actions = append(actions, "remove "+p)
		}
	default:
		actions = append(actions, s.Commands...)
	}
	return fmt.Sprintf("%d. %s [%s] %s", s.Index, s.Name, s.Kind, strings.Join(actions, "; "))
}

// Plan validates cfg and returns the steps of a push in execution order.
// The order is fixed: the live directory is removed only after the new copy is fully
// extracted beside it, and local artefacts survive until the archive has been uploaded.
func Plan(cfg Config) ([]Step, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	buildArgs, err := shell.ParseCommand(cfg.BuildCommand)
	if err != nil {
		return nil, err
	}

	steps := []Step{
		{
			Name: StepBuild,
			Kind: KindLocal,
			Args: buildArgs,
		},
		{
			Name:   StepArchive,
			Kind:   KindLocal,
			Source: cfg.LocalOutputDir(),
			Dest:   cfg.LocalArchivePath(),
		},
		{
			Name: StepRemoteClean,
			Kind: KindRemote,
			Commands: []string{
				shell.QuoteArgs("rm", "-f", cfg.RemoteArchivePath()),
				shell.QuoteArgs("rm", "-rf", cfg.RemoteExtractedDir()),
			},
		},
		{
			Name:   StepTransfer,
			Kind:   KindRemote,
			Source: cfg.LocalArchivePath(),
			Dest:   cfg.RemoteArchivePath(),
		},
		{
			Name:  StepLocalCleanup,
			Kind:  KindLocal,
			Paths: []string{cfg.LocalOutputDir(), cfg.LocalArchivePath()},
		},
		{
			Name: StepExtract,
			Kind: KindRemote,
			Commands: []string{
				shell.QuoteArgs("unzip", cfg.RemoteArchivePath(), "-d", cfg.DomainDir()),
			},
		},
		{
			Name: StepRemoveLive,
			Kind: KindRemote,
			Commands: []string{
				shell.QuoteArgs("rm", "-rf", cfg.DeploymentPath()),
			},
		},
		{
			Name: StepActivate,
			Kind: KindRemote,
			Commands: []string{
				shell.QuoteArgs("mv", cfg.RemoteExtractedDir(), cfg.DeploymentPath()),
			},
		},
	}

	for i := range steps {
		steps[i].Index = i + 1
	}

	return steps, nil
}
