package main

import (
	"fmt"
	"os"

	"github.com/quantfold/marketcast/pkg/runtime/terminal"
	"github.com/quantfold/marketcast/pkg/services/forecast"
	"github.com/quantfold/marketcast/pkg/services/forecast/arima"
	"github.com/quantfold/marketcast/pkg/services/forecast/curve"
	"github.com/quantfold/marketcast/pkg/services/forecast/holtwinters"
	"github.com/quantfold/marketcast/pkg/services/forecast/neural"
	"github.com/quantfold/marketcast/pkg/services/forecast/ses"
)

func main() {
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
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	cli := terminal.NewCLI(terminal.Options{
		Registry: registry,
		Output:   os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
