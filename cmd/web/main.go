package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/quantfold/marketcast/pkg/server"
	"github.com/quantfold/marketcast/pkg/services/forecast"
	"github.com/quantfold/marketcast/pkg/services/forecast/arima"
	"github.com/quantfold/marketcast/pkg/services/forecast/curve"
	"github.com/quantfold/marketcast/pkg/services/forecast/holtwinters"
	"github.com/quantfold/marketcast/pkg/services/forecast/neural"
	"github.com/quantfold/marketcast/pkg/services/forecast/ses"
	"github.com/quantfold/marketcast/pkg/services/market"
	"github.com/quantfold/marketcast/pkg/services/pipeline"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var profilePath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for marketcast",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&profilePath, "profile", "p", "",
		"Path to the configuration profile")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	profile := pipeline.DefaultProfile()
	if profilePath != "" {
		loaded, err := pipeline.LoadProfile(profilePath)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		profile = loaded
		logger.Info().Msgf("Configuration found at `%s` successfully loaded.", profilePath)
	}

	registry := forecast.NewRegistry()
	factories := map[string]forecast.Factory{
		arima.Model:       func() forecast.Forecaster { return arima.New() },
		ses.Model:         func() forecast.Forecaster { return ses.New() },
		holtwinters.Model: func() forecast.Forecaster { return holtwinters.New() },
		neural.Model:      func() forecast.Forecaster { return neural.New() },
		curve.Model:       func() forecast.Forecaster { return curve.New() },
	}
	for name, factory := range factories {
		if err := registry.Register(name, factory); err != nil {
			return fmt.Errorf("failed to register model %s: %w", name, err)
		}
	}

	client := market.NewClient(market.ClientOptions{
		BaseURL: profile.API.BaseURL,
		Transport: market.TransportOptions{
			Timeout:        time.Duration(profile.API.TimeoutSec) * time.Second,
			RequestsPerSec: profile.API.RequestsPerSec,
		},
	})

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr:            net.JoinHostPort(host, port),
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Runner:         pipeline.New(client, registry),
			Registry:       registry,
			DefaultProfile: profile,
		},
	})

	return api.Start()
}
