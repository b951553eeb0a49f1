package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	eventbus "github.com/hanpama/userdir/internal/eventbus"
	logging "github.com/hanpama/userdir/internal/logging"
	metrics "github.com/hanpama/userdir/internal/metrics"
	otel "github.com/hanpama/userdir/internal/otel"
	server "github.com/hanpama/userdir/internal/server"
	store "github.com/hanpama/userdir/internal/store"
	userdir "github.com/hanpama/userdir/internal/userdir"
)

const (
	defaultBindIP = "127.0.0.1"
	port          = "3000"
)

type config struct {
	pretty       bool
	timeout      time.Duration
	maxBodyBytes int64
	corsOrigins  []string
	logLevel     string
	logFormat    string
	metricsAddr  string
	otelEndpoint string
	otelService  string
}

type serveFunc func(ctx context.Context, out io.Writer, addr string, cfg config) error

func main() {
	if err := newRootCmd(serve).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(run serveFunc) *cobra.Command {
	cfg := config{
		timeout:     10 * time.Second,
		logLevel:    "info",
		logFormat:   "console",
		otelService: "userdir",
	}
	cmd := &cobra.Command{
		Use:   "userdir [bind-address]",
		Short: "Serve the in-memory user directory over GraphQL",
		Long: `userdir serves a GraphQL endpoint at /graphql and a GraphiQL playground
at / on port ` + port + `. The optional argument is the IPv4 or IPv6 address to
bind (default ` + defaultBindIP + `).`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseBindAddr(args)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd.OutOrStdout(), addr, cfg)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&cfg.pretty, "server.pretty", cfg.pretty, "Pretty-print JSON responses")
	f.DurationVar(&cfg.timeout, "server.timeout", cfg.timeout, "Per-request timeout")
	f.Int64Var(&cfg.maxBodyBytes, "server.max-body-bytes", cfg.maxBodyBytes, "Maximum request body size, 0 for unlimited")
	f.StringArrayVar(&cfg.corsOrigins, "server.cors-origin", nil, "Allowed CORS origin. Repeatable")
	f.StringVar(&cfg.logLevel, "log.level", cfg.logLevel, "Log level (debug, info, warn, error)")
	f.StringVar(&cfg.logFormat, "log.format", cfg.logFormat, "Log format (json, console)")
	f.StringVar(&cfg.metricsAddr, "metrics.addr", cfg.metricsAddr, "Serve Prometheus metrics on this address")
	f.StringVar(&cfg.otelEndpoint, "otel.endpoint", cfg.otelEndpoint, "OTLP collector endpoint")
	f.StringVar(&cfg.otelService, "otel.service", cfg.otelService, "OpenTelemetry service name")
	return cmd
}

// parseBindAddr returns the listen address for the optional bind argument.
func parseBindAddr(args []string) (string, error) {
	host := defaultBindIP
	if len(args) > 0 {
		host = args[0]
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return "", fmt.Errorf("invalid bind address %q", host)
	}
	return net.JoinHostPort(ip.String(), port), nil
}

func serverOptions(cfg config) []server.Option {
	var opts []server.Option
	if cfg.pretty {
		opts = append(opts, server.WithPretty())
	}
	if cfg.timeout > 0 {
		opts = append(opts, server.WithTimeout(cfg.timeout))
	}
	if cfg.maxBodyBytes > 0 {
		opts = append(opts, server.WithMaxBodyBytes(cfg.maxBodyBytes))
	}
	if len(cfg.corsOrigins) > 0 {
		opts = append(opts, server.WithCORS(cfg.corsOrigins...))
	}
	return opts
}

func serve(ctx context.Context, out io.Writer, addr string, cfg config) error {
	logger, err := logging.New(cfg.logLevel, cfg.logFormat)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	eventbus.Use(eventbus.New())
	defer logging.Subscribe(logger)()

	s := store.Seeded()
	m := metrics.New(s.Len)
	defer m.Subscribe()()

	shutdownOtel, err := otel.Setup(ctx, cfg.otelEndpoint, cfg.otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdownOtel(context.Background()) }()

	playground, err := server.Playground(server.GraphQLPath)
	if err != nil {
		return fmt.Errorf("playground: %w", err)
	}
	dir := userdir.New(s)
	opts := append(serverOptions(cfg), server.WithRequestContext(func(ctx context.Context) context.Context {
		return userdir.NewContext(ctx, dir)
	}))
	h := server.New(userdir.NewExecutor(), opts...)

	srv := &http.Server{
		Handler:           server.NewRouter(h, playground),
		ErrorLog:          logging.StdLog(logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	fmt.Fprintf(out, "Listening on http://%s\n", ln.Addr())
	logger.Info("listening", zap.String("addr", ln.Addr().String()))

	errc := make(chan error, 2)
	go func() { errc <- srv.Serve(ln) }()

	var metricsSrv *http.Server
	if cfg.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		metricsSrv = &http.Server{
			Addr:              cfg.metricsAddr,
			Handler:           mux,
			ErrorLog:          logging.StdLog(logger),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() { errc <- metricsSrv.ListenAndServe() }()
		logger.Info("serving metrics", zap.String("addr", cfg.metricsAddr))
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("serve: %w", err)
		}
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = fmt.Errorf("shutdown: %w", err)
	}
	return serveErr
}
