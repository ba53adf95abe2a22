package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/quantfold/marketcast/pkg/adapters"
	"github.com/quantfold/marketcast/pkg/runtime/terminal/export"
	"github.com/quantfold/marketcast/pkg/services/forecast"
	"github.com/quantfold/marketcast/pkg/services/market"
	"github.com/quantfold/marketcast/pkg/services/pipeline"

	"github.com/spf13/cobra"
)

type AnalyzeCmd struct {
	profilePath string
	coin        string
	days        int
	ratio       float64
	registry    forecast.Registry
	reporter    *export.Reporter
}

func NewAnalyzeCmd(registry forecast.Registry, reporter *export.Reporter) *cobra.Command {
	ac := &AnalyzeCmd{registry: registry, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Evaluate forecast models on a coin's log-returns",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.profilePath, "profile", "", "Path to the configuration profile")
	cmd.Flags().StringVar(&ac.coin, "coin", "", "Coin to analyze (e.g., bitcoin)")
	cmd.Flags().IntVar(&ac.days, "days", 0, "Trailing number of days of daily prices")
	cmd.Flags().Float64Var(&ac.ratio, "ratio", 0, "Train split ratio, between 0 and 1")

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 120*time.Second)
	defer cancel()

	profile := pipeline.DefaultProfile()
	if ac.profilePath != "" {
		loaded, err := pipeline.LoadProfile(ac.profilePath)
		if err != nil {
			return fmt.Errorf("failed to load profile %q: %w", ac.profilePath, err)
		}
		profile = loaded
	}

	// Flags override the profile.
	if ac.coin != "" {
		profile.Coin = ac.coin
	}
	if ac.days > 0 {
		profile.Days = ac.days
	}
	if ac.ratio > 0 {
		profile.SplitRatio = ac.ratio
	}

	client := market.NewClient(market.ClientOptions{
		BaseURL: profile.API.BaseURL,
		Transport: market.TransportOptions{
			Timeout:        time.Duration(profile.API.TimeoutSec) * time.Second,
			RequestsPerSec: profile.API.RequestsPerSec,
		},
	})

	result, err := pipeline.New(client, ac.registry).Run(ctx, profile)
	if err != nil {
		return fmt.Errorf("evaluation failed for %q: %w", profile.Coin, err)
	}

	return ac.reporter.Handle(adapters.MapRunResultToReport(result))
}
