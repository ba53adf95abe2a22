package report

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/quantfold/marketcast/pkg/adapters"
	"github.com/quantfold/marketcast/pkg/models/api"
	"github.com/quantfold/marketcast/pkg/services/forecast"
	"github.com/quantfold/marketcast/pkg/services/pipeline"
	"github.com/rs/zerolog"
)

// Runner executes one evaluation run. The pipeline implements it; tests
// substitute a mock.
type Runner interface {
	Run(ctx context.Context, profile pipeline.Profile) (*pipeline.RunResult, error)
}

type Handler struct {
	runner   Runner
	registry forecast.Registry
	defaults pipeline.Profile
}

func NewHandler(runner Runner, registry forecast.Registry, defaults pipeline.Profile) *Handler {
	return &Handler{
		runner:   runner,
		registry: registry,
		defaults: defaults,
	}
}

func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var response []api.Model
	for _, m := range h.registry.ListModels() {
		response = append(response, api.Model{Name: m})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode models")
	}
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	profile := h.defaults
	if coin := r.URL.Query().Get("coin"); coin != "" {
		profile.Coin = coin
	}
	if days := r.URL.Query().Get("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			http.Error(w, "invalid days parameter", http.StatusBadRequest)
			return
		}
		profile.Days = n
	}
	if ratio := r.URL.Query().Get("ratio"); ratio != "" {
		f, err := strconv.ParseFloat(ratio, 64)
		if err != nil || f <= 0 || f >= 1 {
			http.Error(w, "invalid ratio parameter", http.StatusBadRequest)
			return
		}
		profile.SplitRatio = f
	}

	result, err := h.runner.Run(ctx, profile)
	if err != nil {
		logger.Error().
			Err(err).
			Str("coin", profile.Coin).
			Msg("evaluation run failed")
		http.Error(w, "evaluation failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(adapters.MapRunResultToApi(result)); err != nil {
		logger.Error().
			Err(err).
			Str("coin", profile.Coin).
			Msg("failed to encode report")
	}
}
