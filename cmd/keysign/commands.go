package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kingrea/keysign/internal/buildmodel"
	"github.com/kingrea/keysign/internal/config"
	"github.com/kingrea/keysign/internal/logbook"
	"github.com/kingrea/keysign/internal/signing"
	"github.com/kingrea/keysign/internal/tui"
)

var (
	errUsage = errors.New("usage")
	errHelp  = errors.New("help requested")
)

type commonFlags struct {
	project    string
	properties string
}

func newFlagSet(name string, stderr io.Writer, common *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("keysign "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&common.project, "project", "", "project root that holds key/ (defaults to cwd)")
	fs.StringVar(&common.properties, "properties", "", "path to key.properties, relative to -project (overrides .keysign/config.yaml)")
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected arguments: %v\n", fs.Args())
		return errUsage
	}
	return nil
}

// session is the per-invocation state shared by the subcommands.
type session struct {
	cfg            *config.Config
	propertiesPath string
	invocation     buildmodel.Invocation
	log            *logbook.Logbook
}

func openSession(common commonFlags) (*session, error) {
	project := common.project
	if project == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
		project = wd
	}
	project, err := filepath.Abs(project)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir: %w", err)
	}
	if err := config.InitKeysignDir(project); err != nil {
		return nil, fmt.Errorf("init .keysign: %w", err)
	}
	cfg, err := config.NewConfig(project)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	propertiesPath := cfg.PropertiesPath()
	// Relative -properties anchors on the project root, as config.yaml does.
	if p := strings.TrimSpace(common.properties); p != "" {
		if !filepath.IsAbs(p) {
			p = filepath.Join(cfg.ProjectDir, p)
		}
		propertiesPath = filepath.Clean(p)
	}
	book, err := logbook.New(cfg.LogPath())
	if err != nil {
		return nil, err
	}
	inv := buildmodel.NewInvocation()
	log := book.WithPrefix(inv.Short())
	log.Info("invocation %s started %s in %s", inv.ID, inv.StartedAt.Format(time.RFC3339), cfg.ProjectDir)
	return &session{
		cfg:            cfg,
		propertiesPath: propertiesPath,
		invocation:     inv,
		log:            log,
	}, nil
}

// resolve runs the resolver and records the outcome in the build log.
func (s *session) resolve() (signing.SigningConfig, error) {
	s.log.Info("resolving %s signing config from %s", s.cfg.Variant(), s.propertiesPath)
	cfg, err := signing.NewResolver(s.cfg.ProjectDir).Resolve(s.propertiesPath)
	if err != nil {
		s.log.Error("%s: %v", signing.KindOf(err), err)
		return signing.SigningConfig{}, err
	}
	s.log.Info("resolved %s", cfg)
	return cfg, nil
}

func runCheck(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("check", stderr, &common)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	s, err := openSession(common)
	if err != nil {
		return err
	}
	cfg, err := s.resolve()
	if err != nil {
		fmt.Fprintln(stderr, tui.RenderError(err))
		return errReported
	}
	fmt.Fprintln(stdout, tui.RenderConfig(cfg, s.propertiesPath))
	return nil
}

func runApply(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("apply", stderr, &common)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	s, err := openSession(common)
	if err != nil {
		return err
	}
	cfg, err := s.resolve()
	if err != nil {
		fmt.Fprintln(stderr, tui.RenderError(err))
		return errReported
	}
	project := buildmodel.NewProject(s.cfg.Project.Namespace)
	if err := project.ApplyRelease(cfg); err != nil {
		s.log.Error("apply: %v", err)
		return err
	}
	s.log.Info("signing config attached to %s build type of %s", buildmodel.ReleaseVariant, displayNamespace(project.Namespace))
	fmt.Fprintln(stdout, tui.RenderConfig(cfg, s.propertiesPath))
	fmt.Fprintln(stdout, tui.RenderBuildTypes(project.Namespace, project.BuildTypes()))
	return nil
}

func runLog(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("log", stderr, &common)
	lines := fs.Int("n", 20, "number of entries to show")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	s, err := openSession(common)
	if err != nil {
		return err
	}
	tail, total := s.log.Tail(*lines)
	fmt.Fprintln(stdout, tui.RenderLog(s.log.Path(), tail, total))
	return nil
}

func displayNamespace(namespace string) string {
	if namespace == "" {
		return "(no namespace)"
	}
	return namespace
}
