package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"

	indexability "github.com/Dome-Systems/indexability-go"
	"github.com/Dome-Systems/indexability-go/internal/service/remote"
)

type serveOptions struct {
	addr     string
	index    string
	typ      string
	tokenEnv string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve one include policy as a remote policy service",
		Long: `Serve the include policy of one index type over Connect.

Other evaluators can reference the server as a service:

  services:
    search:
      url: http://localhost:9090
  include:
    blog/post: ['@search', Check]`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv, err := newPolicyServer(ctx, rootOpts, opts)
			if err != nil {
				return err
			}
			return runServer(ctx, rootOpts.Logger(), srv, opts.addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":9090", "address to listen on")
	cmd.Flags().StringVar(&opts.index, "index", "", "index name")
	cmd.Flags().StringVar(&opts.typ, "type", "", "type name")
	cmd.Flags().StringVar(&opts.tokenEnv, "token-env", "", "environment variable holding the Bearer token callers must send")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

// newPolicyServer loads the policy document and returns an HTTP server that
// answers checks with the include policy of opts.index/opts.typ.
func newPolicyServer(ctx context.Context, rootOpts *RootOptions, opts *serveOptions) (*http.Server, error) {
	logger := rootOpts.SlogLogger()

	cfg, err := loadConfig(ctx, rootOpts.Config, logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	ev, err := newEvaluator(cfg, logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "build evaluator", err)
	}

	path, handler := remote.NewHandler(func(_ context.Context, obj *structpb.Struct) (bool, error) {
		return ev.IsIndexable(opts.index, opts.typ, obj.AsMap())
	})

	var token string
	if opts.tokenEnv != "" {
		token = os.Getenv(opts.tokenEnv)
		if token == "" {
			return nil, WrapExitError(ExitCommandError, "load token", fmt.Errorf("%s is not set", opts.tokenEnv))
		}
	}

	mux := http.NewServeMux()
	mux.Handle(path, remote.RequireToken(token, logger, handler))

	return &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}, nil
}

// runServer listens on addr until ctx ends, then shuts srv down.
func runServer(ctx context.Context, logger *zap.Logger, srv *http.Server, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return WrapExitError(ExitCommandError, "listen", err)
	}
	logger.Info("serving policy checks", zap.String("addr", ln.Addr().String()), zap.String("procedure", indexability.RemoteCheckProcedure))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
