package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/all4-dev/gradle-release-plugin/pkg/config"
	"github.com/all4-dev/gradle-release-plugin/pkg/descriptor"
	"github.com/all4-dev/gradle-release-plugin/pkg/execx"
	"github.com/all4-dev/gradle-release-plugin/pkg/logging"
	"github.com/all4-dev/gradle-release-plugin/pkg/publish"
	"github.com/all4-dev/gradle-release-plugin/pkg/vault"
	"github.com/all4-dev/gradle-release-plugin/pkg/vcs"
	"github.com/all4-dev/gradle-release-plugin/pkg/workflow"
)

var version = "dev"

const (
	_ = iota
	exitUsage
	exitDotenvError
	exitLoadConfigurationFailed
	exitCommandFailed
)

var (
	projectDir    string
	dryRun        bool
	noPush        bool
	skipPublish   bool
	targetVersion string
	loggingType   string
	logLevel      string
	showVersion   bool
)

func init() {
	flag.StringVar(
		&projectDir,
		"project-dir",
		".",
		"project root containing the build descriptor")
	flag.BoolVar(
		&dryRun,
		"dry-run",
		false,
		"log every mutating step instead of executing it")
	flag.BoolVar(
		&noPush,
		"no-push",
		false,
		"skip pushing commit and tag to the remote")
	flag.BoolVar(
		&skipPublish,
		"skip-publish",
		false,
		"skip publishing, tag only")
	flag.StringVar(
		&targetVersion,
		"version",
		"",
		"explicit target version (required for tag-and-publish-release)")
	flag.StringVar(
		&loggingType,
		"logging-type",
		"tint",
		"logging type: json, text or tint")
	flag.StringVar(
		&logLevel,
		"log-level",
		"info",
		"logging level: debug, info, warn, error")
	flag.BoolVar(
		&showVersion,
		"show-version",
		false,
		"print tool version and exit")

	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `usage: gradle-release [flags] <command>

commands:
  doctor                        validate tool and secret availability
  bump-pre                      advance to the next pre-release version, commit
  publish-local                 publish to the local maven cache
  publish-portal                publish to the plugin portal
  publish-central               publish to the central registry
  tag-and-publish-pre-release   full pre-release flow
  tag-and-publish-release       full stable-release flow (needs -version)

flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	_ = logging.Initialize(loggingType, logLevel)

	includeEnv()

	command := flag.Arg(0)
	if command == "" {
		usage()
		os.Exit(exitUsage)
	}

	w := buildWorkflow()
	opts := workflow.Options{
		DryRun:      dryRun,
		NoPush:      noPush,
		SkipPublish: skipPublish,
		Version:     targetVersion,
	}

	if err := dispatch(w, command, opts); err != nil {
		slog.Error("command failed", "command", command, "error", err)
		os.Exit(exitCommandFailed)
	}

	slog.Info("done", "command", command)
}

func dispatch(w *workflow.Workflow, command string, opts workflow.Options) error {
	switch command {
	case "doctor":
		return w.Doctor()
	case "bump-pre":
		_, err := w.BumpPre(opts)
		return err
	case "publish-local":
		return w.PublishTo(publish.Local.Name, opts)
	case "publish-portal":
		return w.PublishTo(publish.Portal.Name, opts)
	case "publish-central":
		return w.PublishTo(publish.Central.Name, opts)
	case "tag-and-publish-pre-release":
		return w.TagAndPublishPreRelease(opts)
	case "tag-and-publish-release":
		return w.TagAndPublishRelease(opts)
	default:
		return fmt.Errorf("unknown command %q, run with -h for usage", command)
	}
}

func buildWorkflow() *workflow.Workflow {
	cfg, err := config.Load(projectDir)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(exitLoadConfigurationFailed)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		slog.Warn("could not determine home directory", "error", err)
	}

	runner := execx.NewRunner()
	return workflow.New(
		cfg,
		descriptor.NewStore(cfg.DescriptorPath()),
		vcs.New(runner, cfg.Dir),
		vault.NewResolver(runner),
		publish.NewGateway(runner, cfg.Dir, cfg.Gradle),
		home,
		os.Stdout,
	)
}

func includeEnv() {
	err := godotenv.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("failed to load .env", "error", err)
			os.Exit(exitDotenvError)
		}
		slog.Debug("no .env file found")
	} else {
		slog.Info("using .env file")
	}
}
