package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	indexability "github.com/Dome-Systems/indexability-go"
	"github.com/Dome-Systems/indexability-go/internal/config"
)

// ConfigTokenEnv names the environment variable holding the Bearer token
// sent when the policy document is fetched over HTTP.
const ConfigTokenEnv = "INDEXABILITY_CONFIG_TOKEN"

// Fetch retry bounds for remote policy documents.
const (
	fetchTimeout      = 30 * time.Second
	fetchBaseInterval = 500 * time.Millisecond
	fetchMaxInterval  = 5 * time.Second
)

// loadConfig reads the policy document from a file or an http(s) URL.
func loadConfig(ctx context.Context, location string, logger *slog.Logger) (*config.Config, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		return config.Load(location)
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	f := config.NewFetcher(http.DefaultClient, location, os.Getenv(ConfigTokenEnv))
	return config.FetchWithRetry(ctx, f, fetchBaseInterval, fetchMaxInterval, logger)
}

// newEvaluator builds an Evaluator from a parsed document. Each configured
// service is registered as a remote checker under its name.
func newEvaluator(cfg *config.Config, logger *slog.Logger) (*indexability.Evaluator, error) {
	var engine indexability.ExpressionEngine
	switch cfg.Expression {
	case config.EngineExpr, "":
		engine = indexability.NewExprEngine()
	case config.EngineCedar:
		engine = indexability.NewCedarEngine()
	case config.EngineNone:
	default:
		return nil, fmt.Errorf("unknown expression engine %q", cfg.Expression)
	}

	registry := indexability.NewServiceRegistry()
	for _, name := range slices.Sorted(maps.Keys(cfg.Services)) {
		svc := cfg.Services[name]
		registry.Register(name, indexability.NewRemoteChecker(svc.URL,
			indexability.WithRemoteToken(svc.Token()),
			indexability.WithRemoteTimeout(svc.Timeout),
			indexability.WithRemoteLogger(logger.With("service", name)),
		))
		logger.Debug("registered remote service", "service", name, "url", svc.URL)
	}

	return indexability.NewEvaluator(indexability.Policies{
		Include: cfg.Include,
		Update:  cfg.Update,
	}, indexability.WithExpressionEngine(engine), indexability.WithServices(registry), indexability.WithLogger(logger)), nil
}

// readObject decodes a JSON object from r.
func readObject(r io.Reader) (map[string]any, error) {
	var obj map[string]any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("decode object: expected a JSON object")
	}
	return obj, nil
}
