package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/semver-release/pkg/config"
	"github.com/semver-release/pkg/failure"
	"github.com/semver-release/pkg/logger"
	"github.com/semver-release/pkg/release"
	"github.com/semver-release/pkg/reporter"
	"github.com/semver-release/pkg/vcs"
	"github.com/semver-release/pkg/version"
)

var (
	buildVersion = "dev"
	buildCommit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		msg := "Action failed with error: " + err.Error()
		fmt.Fprintln(os.Stderr, msg)
		if os.Getenv("GITHUB_ACTIONS") == "true" {
			reporter.Annotate(os.Stdout, msg)
		}
		os.Exit(failure.ExitCodeOf(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "semver-release",
		Short:         "Compute the next semantic version from commit messages and optionally release it",
		Long:          `Reads the repository's tags and the commits of a pull request (or of a branch since the latest tag), derives the next semantic version from keywords in the commit messages, and creates a GitHub release when asked to.`,
		Version:       fmt.Sprintf("%s (%s)", buildVersion, buildCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return failure.Config(err)
	})

	flags := rootCmd.Flags()
	flags.String("github-token", firstNonEmpty(input("github_token"), os.Getenv("GITHUB_TOKEN")), "GitHub token for API access")
	flags.String("major-keyword", input("major-keyword"), "Substring that forces a major bump (default "+version.DefaultMajorKeyword+")")
	flags.String("minor-keywords", input("minor-keywords"), "Comma-separated substrings that force a minor bump (default "+version.DefaultMinorKeywords+")")
	flags.String("trigger-release", firstNonEmpty(input("trigger-release"), "false"), "Create the release instead of a dry run")
	flags.Lookup("trigger-release").NoOptDefVal = "true"
	flags.String("tag-prefix", input("tag-prefix"), "Prefix for the created tag, e.g. v")
	flags.String("commits-from", input("commits-from"), "Commit source: pull-request | since-tag")
	flags.String("repo", os.Getenv("GITHUB_REPOSITORY"), "GitHub repo (owner/repo)")
	flags.String("api-url", os.Getenv("GITHUB_API_URL"), "GitHub API URL (GitHub Enterprise)")
	flags.String("event-name", os.Getenv("GITHUB_EVENT_NAME"), "Name of the triggering event")
	flags.String("event-path", os.Getenv("GITHUB_EVENT_PATH"), "Path to the triggering event payload")
	flags.Int("pull-request", 0, "Pull request number (overrides the event payload)")
	flags.String("branch", os.Getenv("GITHUB_REF_NAME"), "Branch to read history from with --commits-from=since-tag")
	flags.String("github-output", os.Getenv("GITHUB_OUTPUT"), "File to append step outputs to")
	flags.String("output", "text", "Output format: text | json")
	flags.String("config", ".semver-release.yml", "Path to config file")
	logEnv := logger.FromEnv()
	flags.String("log-level", logEnv.Level, "Log level: debug | info | warn | error")
	flags.String("log-format", logEnv.Format, "Log format: console | json")

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	logOpts := logger.Options{Writer: cmd.ErrOrStderr()}
	logOpts.Level, _ = cmd.Flags().GetString("log-level")
	logOpts.Format, _ = cmd.Flags().GetString("log-format")

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			return failure.Config(fmt.Errorf("load config %s: %w", cfgPath, err))
		}
		logger.New(logOpts).Debug().Str("path", cfgPath).Msg("no config file, using defaults")
		cfg = config.Default()
	}

	cfg = config.MergeFlags(cfg, cmd.Flags())
	if err := cfg.Validate(); err != nil {
		return failure.Config(err)
	}

	event, err := vcs.LoadEvent(cfg.EventName, cfg.EventPath)
	if err != nil {
		return failure.Config(err)
	}

	client, err := vcs.NewClient(cfg.Token, cfg.APIURL)
	if err != nil {
		return failure.Config(err)
	}

	logOpts.Fields = map[string]string{
		"repo":   cfg.Repo,
		"source": cfg.CommitsFrom,
		"event":  event.Name,
	}
	log := logger.New(logOpts)
	if !cfg.TriggerRelease {
		log.Info().Msg("dry-run mode: no release will be created")
	}

	res, err := release.New(vcs.NewGitHubClient(client), cfg, event, log).Run(cmd.Context())
	if err != nil {
		return err
	}

	if err := reporter.New(cfg.Output, cmd.OutOrStdout()).Report(res); err != nil {
		return fmt.Errorf("report result: %w", err)
	}
	return reporter.WriteOutputs(cfg.OutputFile, res)
}

// input reads a GitHub Actions input, which the runner exposes as
// INPUT_<NAME> with the name upper-cased.
func input(name string) string {
	return strings.TrimSpace(os.Getenv("INPUT_" + strings.ToUpper(name)))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
