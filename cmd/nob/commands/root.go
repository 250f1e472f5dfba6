// Package commands implements the CLI commands for the nob build driver.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/nob/internal/app"
	"go.trai.ch/nob/internal/build"
	"go.trai.ch/nob/internal/core/domain"
)

// CLI represents the command line interface for nob.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.BuildOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
	Watch(ctx context.Context, opts app.BuildOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "nob",
		Short:         "Build C projects from a programmable target graph",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", domain.DefaultConfigFile, "Path to configuration file")
	rootCmd.PersistentFlags().Bool("json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().StringP("output-mode", "o", "auto", "Output mode: auto, linear, ci or quiet")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetJSONHook calls fn with the value of the json flag before any command runs.
func (c *CLI) SetJSONHook(fn func(bool)) {
	c.rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		enable, err := cmd.Flags().GetBool("json")
		if err != nil {
			return err
		}
		fn(enable)
		return nil
	}
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// buildOptions reads the flags shared by build and watch.
func buildOptions(cmd *cobra.Command, args []string) app.BuildOptions {
	configPath, _ := cmd.Flags().GetString("config")
	outputMode, _ := cmd.Flags().GetString("output-mode")
	jobs, _ := cmd.Flags().GetInt("jobs")
	keepGoing, _ := cmd.Flags().GetBool("keep-going")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	opts := app.BuildOptions{
		ConfigPath: configPath,
		Jobs:       jobs,
		KeepGoing:  keepGoing,
		DryRun:     dryRun,
		OutputMode: outputMode,
	}
	if len(args) > 0 {
		opts.Target = args[0]
	}
	return opts
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("jobs", "j", 0, "Number of commands to run in parallel (default: number of CPUs)")
	cmd.Flags().BoolP("keep-going", "k", false, "Keep building targets unrelated to a failure")
	cmd.Flags().BoolP("dry-run", "n", false, "Print the commands that would run without running them")
}
