// Package remote exposes a policy service that lives in another process.
//
// A Checker is registered in the service container like any local service and
// referenced as ["@name", "Check"]. Each call sends the candidate object as a
// google.protobuf.Struct to a Connect endpoint and reads back a
// google.protobuf.BoolValue.
package remote

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Dome-Systems/indexability-go/internal/document"
)

// CheckProcedure is the Connect procedure served by policy services.
const CheckProcedure = "/indexability.v1.PolicyService/Check"

// RequestIDHeader carries a per-call id for correlating logs on both sides.
const RequestIDHeader = "X-Request-Id"

// DefaultTimeout bounds a single Check call.
const DefaultTimeout = 5 * time.Second

type checkerConfig struct {
	httpClient *http.Client
	token      string
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Checker.
type Option func(*checkerConfig)

// WithHTTPClient sets the HTTP client used for calls. Its transport is
// wrapped when a token is configured.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *checkerConfig) {
		if c != nil {
			cfg.httpClient = c
		}
	}
}

// WithToken sends token as a Bearer credential on every call.
func WithToken(token string) Option {
	return func(cfg *checkerConfig) {
		cfg.token = strings.TrimSpace(token)
	}
}

// WithTimeout sets the per-call timeout. Must be positive.
func WithTimeout(d time.Duration) Option {
	return func(cfg *checkerConfig) {
		if d > 0 {
			cfg.timeout = d
		}
	}
}

// WithLogger sets a custom slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *checkerConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// Checker calls a remote policy service.
type Checker struct {
	client  *connect.Client[structpb.Struct, wrapperspb.BoolValue]
	timeout time.Duration
	logger  *slog.Logger
}

// NewChecker creates a Checker for the service at baseURL.
func NewChecker(baseURL string, opts ...Option) *Checker {
	cfg := checkerConfig{
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
	}
	for _, o := range opts {
		o(&cfg)
	}

	httpClient := cfg.httpClient
	if cfg.token != "" {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		clone := *httpClient
		clone.Transport = &bearerTransport{base: base, token: cfg.token}
		httpClient = &clone
	}

	url := strings.TrimRight(baseURL, "/") + CheckProcedure
	return &Checker{
		client:  connect.NewClient[structpb.Struct, wrapperspb.BoolValue](httpClient, url),
		timeout: cfg.timeout,
		logger:  cfg.logger,
	}
}

// Check asks the remote service whether object passes its policy.
func (c *Checker) Check(object any) (bool, error) {
	msg, err := document.ToStruct(object)
	if err != nil {
		return false, fmt.Errorf("remote check: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	req := connect.NewRequest(msg)
	id := uuid.NewString()
	req.Header().Set(RequestIDHeader, id)

	resp, err := c.client.CallUnary(ctx, req)
	if err != nil {
		c.logger.Debug("remote check failed", "request_id", id, "code", connect.CodeOf(err).String(), "error", err)
		return false, fmt.Errorf("remote check: %w", err)
	}
	return resp.Msg.GetValue(), nil
}

// bearerTransport injects a static Bearer token into every outgoing request.
type bearerTransport struct {
	base  http.RoundTripper
	token string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(clone)
}
