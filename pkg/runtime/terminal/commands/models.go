package commands

import (
	"fmt"
	"strings"

	"github.com/quantfold/marketcast/pkg/services/forecast"
	"github.com/spf13/cobra"
)

type ModelsCmd struct {
	registry forecast.Registry
}

func NewModelsCmd(registry forecast.Registry) *cobra.Command {
	mc := &ModelsCmd{registry: registry}
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List registered forecast models",
		RunE:  mc.run,
	}

	return cmd
}

func (mc *ModelsCmd) run(cmd *cobra.Command, args []string) error {
	models := mc.registry.ListModels()
	if len(models) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No forecast models registered")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Registered models:\n%s\n",
		strings.Join(models, "\n"))

	return nil
}
