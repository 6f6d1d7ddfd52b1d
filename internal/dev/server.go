package dev

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rokoui/roko/internal/compiler"
	"github.com/rokoui/roko/internal/config"
	"github.com/rokoui/roko/internal/errors"
)

// ServerOptions configures the development server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// Logger receives server logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Registry collects the dev server metrics served on /metrics.
	// Defaults to a new registry.
	Registry *prometheus.Registry

	// OnGenerate is called for every file the server regenerates.
	OnGenerate func(result compiler.FileResult)

	// OnBuildComplete is called when a WebAssembly build completes.
	OnBuildComplete func(result BuildResult)

	// OnReload is called when browsers are reloaded.
	OnReload func(clients int)
}

// Server is the development server: it regenerates template sources as
// they change, rebuilds the WebAssembly binary and reloads connected
// browsers.
type Server struct {
	config       *config.Config
	options      ServerOptions
	logger       *slog.Logger
	gen          compiler.Options
	watcher      *Watcher
	builder      *Builder
	reloadServer *ReloadServer
	registry     *prometheus.Registry
	metrics      *serverMetrics
	changeCh     chan []Change
	httpServer   *http.Server
	mu           sync.Mutex
	running      bool
}

// NewServer creates a new development server.
func NewServer(options ServerOptions) *Server {
	cfg := options.Config
	logger := options.Logger
	if logger == nil {
		logger = slog.Default().With("component", "dev")
	}
	registry := options.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics := newServerMetrics(registry)

	gen := compiler.OptionsFromConfig(cfg)
	gen.Logger = logger

	ignore := slices.Concat(DefaultIgnore, cfg.Gen.Ignore, []string{"*" + cfg.Gen.OutputSuffix})

	var builder *Builder
	if cfg.Dev.Build != "" {
		builder = NewBuilder(BuilderConfig{
			ProjectPath: cfg.Dir(),
			Package:     cfg.Dev.Build,
			Output:      cfg.WasmOutputPath(),
			Tags:        cfg.Dev.Tags,
		})
		// The server reloads after its own builds.
		ignore = append(ignore, filepath.Base(builder.Output()))
	}

	watcher := NewWatcher(WatcherConfig{
		Paths:        CollectWatchPaths(cfg),
		Ignore:       ignore,
		Interval:     cfg.PollInterval(),
		SourceSuffix: cfg.Gen.InputSuffix,
	})

	var reloadServer *ReloadServer
	if cfg.Dev.HotReload {
		reloadServer = NewReloadServer(logger)
		reloadServer.onCount = func(n int) { metrics.clients.Set(float64(n)) }
	}

	return &Server{
		config:       cfg,
		options:      options,
		logger:       logger,
		gen:          gen,
		watcher:      watcher,
		builder:      builder,
		reloadServer: reloadServer,
		registry:     registry,
		metrics:      metrics,
	}
}

// Handler returns the HTTP handler of the dev server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	if s.reloadEnabled() {
		r.Get(ReloadPath, s.reloadServer.HandleWebSocket)
	}
	if s.config.Dev.Metrics {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	r.Get("/*", s.serveStatic)
	return r
}

// Start runs an initial generation, then watches and serves until ctx
// is done. A failing initial generation is reported but does not stop
// the server.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	ln, err := net.Listen("tcp", s.config.DevAddress())
	if err != nil {
		s.Stop()
		return errors.New("RE142").WithDetail(s.config.DevAddress()).Wrap(err)
	}

	s.Generate(ctx)

	s.changeCh = make(chan []Change, 16)
	s.watcher.OnChange(func(changes []Change) {
		select {
		case s.changeCh <- changes:
		default:
			s.logger.Warn("change queue full, dropping changes", "count", len(changes))
		}
	})

	go s.watcher.Start(ctx)
	go s.processChanges(ctx)

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("dev server running", "url", s.config.DevURL())

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		return err
	}
}

// Stop stops the development server.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	s.watcher.Stop()
	if s.reloadServer != nil {
		s.reloadServer.Close()
	}

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

// Generate regenerates every input under the include roots and rebuilds
// the WebAssembly binary when dev.build is set.
func (s *Server) Generate(ctx context.Context) error {
	start := time.Now()
	var errs []error
	for _, root := range s.config.IncludePaths() {
		res, err := compiler.Compile(ctx, root, s.gen)
		for _, f := range res.Files {
			s.record(f)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	s.metrics.duration.Observe(time.Since(start).Seconds())

	if err := stderrors.Join(errs...); err != nil {
		s.logger.Error("generation failed", "error", err)
		s.notifyError(err)
		return err
	}
	if err := s.build(ctx); err != nil {
		return err
	}
	s.clearReloadError()
	return nil
}

// processChanges serializes change handling and coalesces bursts.
func (s *Server) processChanges(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case changes := <-s.changeCh:
			draining := true
			for draining {
				select {
				case next := <-s.changeCh:
					changes = append(changes, next...)
				default:
					draining = false
				}
			}
			s.handleChanges(ctx, changes)
		}
	}
}

// handleChanges handles a batch of file changes.
func (s *Server) handleChanges(ctx context.Context, changes []Change) {
	if len(changes) == 0 {
		return
	}

	var sources []Change
	var cssPath string
	hasGo := false
	hasAsset := false

	for _, change := range changes {
		s.logger.Info("changed", "file", change.Path, "type", change.Type.String(), "removed", change.Removed)
		switch change.Type {
		case ChangeSource:
			sources = append(sources, change)
		case ChangeGo:
			hasGo = true
		case ChangeCSS:
			if cssPath == "" {
				cssPath = change.Path
			}
		case ChangeAsset:
			hasAsset = true
		}
	}

	if len(sources) > 0 || hasGo {
		if err := s.regenerate(sources); err != nil {
			return
		}
		if err := s.build(ctx); err != nil {
			return
		}
		s.clearReloadError()
		s.notifyReload()
		return
	}

	if cssPath != "" {
		s.notifyCSS(cssPath)
		return
	}

	if hasAsset {
		s.notifyReload()
	}
}

// regenerate compiles the changed sources and removes the outputs of
// deleted ones.
func (s *Server) regenerate(sources []Change) error {
	start := time.Now()
	var errs []error
	for _, change := range sources {
		if change.Removed {
			output := s.gen.OutputPath(change.Path)
			if err := os.Remove(output); err == nil {
				s.logger.Info("removed generated file", "file", output)
			} else if !os.IsNotExist(err) {
				errs = append(errs, errors.New("RE141").WithDetail(output).Wrap(err))
			}
			continue
		}
		res := compiler.CompileFile(change.Path, s.gen)
		s.record(res)
		if res.Error != nil {
			errs = append(errs, res.Error)
		}
	}
	s.metrics.duration.Observe(time.Since(start).Seconds())

	err := stderrors.Join(errs...)
	if err != nil {
		s.logger.Error("generation failed", "error", err)
		s.notifyError(err)
	}
	return err
}

func (s *Server) record(res compiler.FileResult) {
	result := "unchanged"
	switch {
	case res.Error != nil:
		result = "error"
	case res.Changed:
		result = "changed"
		s.logger.Info("generated", "file", res.Output)
	}
	s.metrics.generations.WithLabelValues(result).Inc()
	if s.options.OnGenerate != nil {
		s.options.OnGenerate(res)
	}
}

// build runs the WebAssembly build when one is configured.
func (s *Server) build(ctx context.Context) error {
	if s.builder == nil {
		return nil
	}

	s.logger.Info("building", "package", s.config.Dev.Build)
	result := s.builder.Build(ctx)
	if s.options.OnBuildComplete != nil {
		s.options.OnBuildComplete(result)
	}

	if !result.Success {
		s.metrics.builds.WithLabelValues("error").Inc()
		s.logger.Error("build failed", "output", result.Output, "error", result.Error)
		s.notifyError(result.Error)
		return result.Error
	}

	s.metrics.builds.WithLabelValues("ok").Inc()
	s.logger.Info("built", "output", s.builder.Output(), "duration", result.Duration.Round(time.Millisecond))
	return nil
}

// serveStatic serves the static directory, injecting the reload client
// into HTML pages.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	root := s.config.StaticPath()
	if root == "" {
		http.NotFound(w, r)
		return
	}

	name := filepath.Join(root, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
	if info, err := os.Stat(name); err == nil && info.IsDir() {
		name = filepath.Join(name, "index.html")
	}

	if !s.reloadEnabled() || filepath.Ext(name) != ".html" {
		http.ServeFile(w, r, name)
		return
	}

	data, err := os.ReadFile(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(InjectScript(data))
}

// InjectScript inserts DevClientScript before </body>, else before
// </html>, else at the end of page.
func InjectScript(page []byte) []byte {
	script := []byte(DevClientScript)
	for _, marker := range [][]byte{[]byte("</body>"), []byte("</html>")} {
		if idx := bytes.LastIndex(page, marker); idx != -1 {
			out := make([]byte, 0, len(page)+len(script))
			out = append(out, page[:idx]...)
			out = append(out, script...)
			return append(out, page[idx:]...)
		}
	}
	return append(slices.Clip(page), script...)
}

func (s *Server) reloadEnabled() bool {
	return s.reloadServer != nil
}

func (s *Server) notifyReload() {
	if !s.reloadEnabled() {
		s.logger.Info("reload skipped, hot reload disabled")
		return
	}

	s.reloadServer.NotifyReload()
	s.metrics.reloads.WithLabelValues(string(ReloadTypeFull)).Inc()
	clients := s.reloadServer.ClientCount()
	if s.options.OnReload != nil {
		s.options.OnReload(clients)
	}
	s.logger.Info("reloaded browsers", "clients", clients)
}

func (s *Server) notifyCSS(file string) {
	if !s.reloadEnabled() {
		return
	}
	if rel, err := filepath.Rel(s.config.StaticPath(), file); err == nil && isWithinDir(file, s.config.StaticPath()) {
		file = "/" + filepath.ToSlash(rel)
	}
	s.reloadServer.NotifyCSS(file)
	s.metrics.reloads.WithLabelValues(string(ReloadTypeCSS)).Inc()
	s.logger.Info("reloaded stylesheets", "file", file)
}

func (s *Server) notifyError(err error) {
	if !s.reloadEnabled() {
		return
	}
	s.reloadServer.NotifyError(err)
	s.metrics.reloads.WithLabelValues(string(ReloadTypeError)).Inc()
}

func (s *Server) clearReloadError() {
	if !s.reloadEnabled() {
		return
	}
	s.reloadServer.ClearError()
}
