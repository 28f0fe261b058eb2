package indexability

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dome-Systems/indexability-go/internal/expression/cedarexpr"
	"github.com/Dome-Systems/indexability-go/internal/expression/exprlang"
	"github.com/Dome-Systems/indexability-go/internal/service"
	"github.com/Dome-Systems/indexability-go/internal/service/remote"
)

// NewExprEngine returns the default engine. Expressions use expr-lang syntax
// and may call exported methods: object.IsPublished() && post.Views > 10.
func NewExprEngine() ExpressionEngine {
	return exprlang.New()
}

// NewCedarEngine returns an engine for Cedar conditions. Variables are read
// from the request context: context.object.published == true.
func NewCedarEngine() ExpressionEngine {
	return cedarexpr.New()
}

// ServiceRegistry is an in-process ServiceResolver.
type ServiceRegistry = service.Registry

// NewServiceRegistry creates an empty service registry.
func NewServiceRegistry() *ServiceRegistry {
	return service.NewRegistry()
}

// RemoteChecker is a service whose Check method asks a remote Connect
// endpoint. Register it and reference it as ["@name", "Check"].
type RemoteChecker = remote.Checker

// RemoteOption configures a RemoteChecker.
type RemoteOption = remote.Option

// NewRemoteChecker creates a checker for the policy service at baseURL.
func NewRemoteChecker(baseURL string, opts ...RemoteOption) *RemoteChecker {
	return remote.NewChecker(baseURL, opts...)
}

// WithRemoteToken sends token as a Bearer credential on remote checks.
func WithRemoteToken(token string) RemoteOption { return remote.WithToken(token) }

// WithRemoteTimeout bounds a single remote check.
func WithRemoteTimeout(d time.Duration) RemoteOption { return remote.WithTimeout(d) }

// WithRemoteHTTPClient sets the HTTP client used for remote checks.
func WithRemoteHTTPClient(c *http.Client) RemoteOption { return remote.WithHTTPClient(c) }

// WithRemoteLogger sets the logger used for failed remote checks.
func WithRemoteLogger(l *slog.Logger) RemoteOption { return remote.WithLogger(l) }

// RemoteCheckProcedure is the Connect procedure a RemoteChecker calls.
const RemoteCheckProcedure = remote.CheckProcedure
