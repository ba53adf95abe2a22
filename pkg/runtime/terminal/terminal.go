package terminal

import (
	"io"
	"os"

	"github.com/quantfold/marketcast/pkg/runtime/terminal/commands"
	"github.com/quantfold/marketcast/pkg/runtime/terminal/export"

	"github.com/quantfold/marketcast/pkg/services/forecast"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	registry forecast.Registry
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Registry forecast.Registry
	Output   io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		registry: opts.Registry,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "marketcast",
		Short: "Forecast model evaluation for crypto market data",
	}

	cmd.AddCommand(commands.NewAnalyzeCmd(cli.registry, cli.reporter))
	cmd.AddCommand(commands.NewModelsCmd(cli.registry))

	return cmd
}
