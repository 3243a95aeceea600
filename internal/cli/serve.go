package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/passview/internal/metrics"
	"github.com/matzehuels/passview/pkg/artifact"
	perrors "github.com/matzehuels/passview/pkg/errors"
	"github.com/matzehuels/passview/pkg/observability"
	"github.com/matzehuels/passview/pkg/render/nodelink"
	"github.com/matzehuels/passview/pkg/sink"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command that exposes recorded passes over
// HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [destination]",
		Short: "Serve recorded passes over HTTP",
		Long: `Serve the passes recorded at a destination over HTTP.

Endpoints:
  GET /passes             recorded passes as JSON
  GET /artifacts/{name}   a single diagram
  GET /metrics            Prometheus metrics`,
		Example: `  passview serve ./diagrams
  passview serve redis://localhost:6379/0 --addr 127.0.0.1:9090`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := c.destination(args)
			if err != nil {
				return err
			}
			return c.serve(cmd.Context(), dest, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")

	return cmd
}

func (c *CLI) serve(ctx context.Context, dest, addr string) error {
	logger := loggerFromContext(ctx)

	s, err := openSink(ctx, dest)
	if err != nil {
		return err
	}
	defer s.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.New(reg).Install()
	defer observability.Reset()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(s, reg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	printSuccess("Serving %s", StyleHighlight.Render(dest))
	printKeyValue("Address", StyleLink.Render("http://"+listenHost(addr)))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return perrors.Wrap(perrors.ErrCodeInternal, err, "listen on %s", addr)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func listenHost(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

// =============================================================================
// HTTP handlers
// =============================================================================

// passJSON is the wire form of a recorded pass.
type passJSON struct {
	Sequence int    `json:"seq"`
	Name     string `json:"pass"`
	Input    string `json:"input,omitempty"`
	Output   string `json:"output,omitempty"`
}

type server struct {
	sink   sink.Sink
	logger *log.Logger
}

// newServer returns the router for a sink. Metrics are served from reg.
func newServer(s sink.Sink, reg *prometheus.Registry, logger *log.Logger) http.Handler {
	srv := &server{sink: s, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(srv.logRequests)

	r.Get("/passes", srv.handlePasses)
	r.Get("/artifacts/{name}", srv.handleArtifact)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "elapsed", time.Since(start).Round(time.Microsecond))
	})
}

func (s *server) handlePasses(w http.ResponseWriter, r *http.Request) {
	passes, _, err := loadPasses(r.Context(), s.sink)
	if err != nil {
		s.fail(w, err)
		return
	}
	out := make([]passJSON, 0, len(passes))
	for _, p := range passes {
		out = append(out, passJSON{Sequence: p.Sequence, Name: p.Name, Input: p.Input, Output: p.Output})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.logger.Warn("encode passes", "err", err)
	}
}

func (s *server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := perrors.ValidateArtifactName(name); err != nil {
		http.Error(w, perrors.UserMessage(err), http.StatusBadRequest)
		return
	}

	data, err := s.sink.Get(r.Context(), name)
	if err != nil {
		s.fail(w, err)
		return
	}
	observability.Sink().OnArtifactRead(r.Context(), s.sink.Backend(), name, len(data))

	w.Header().Set("Content-Type", contentType(name))
	_, _ = w.Write(data)
}

func (s *server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, sink.ErrNotFound):
		status = http.StatusNotFound
	case perrors.Is(err, perrors.ErrCodeInvalidPath):
		status = http.StatusBadRequest
	default:
		s.logger.Error("request failed", "err", err)
	}
	http.Error(w, perrors.UserMessage(err), status)
}

// contentType derives the MIME type from an artifact name.
func contentType(name string) string {
	info, ok := artifact.Parse(name)
	if !ok {
		return "application/octet-stream"
	}
	f, err := nodelink.ParseFormat(info.Ext)
	if err != nil {
		return "application/octet-stream"
	}
	return f.ContentType()
}
