package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/glidebrowser/glide/internal/agent"
	"github.com/glidebrowser/glide/internal/config"
	"github.com/glidebrowser/glide/internal/frame"
	shellhttp "github.com/glidebrowser/glide/internal/http"
	"github.com/glidebrowser/glide/internal/logging"
	"github.com/glidebrowser/glide/internal/middleware"
	"github.com/glidebrowser/glide/internal/monitoring"
	"github.com/glidebrowser/glide/internal/nav"
	"github.com/glidebrowser/glide/internal/providers/settings"
	"github.com/glidebrowser/glide/internal/providers/workflow"
	"github.com/glidebrowser/glide/internal/script"
	"github.com/glidebrowser/glide/internal/shared/types"
	"github.com/glidebrowser/glide/internal/tabs"
	"github.com/glidebrowser/glide/internal/ws"
)

// scriptPoolSize is the number of pre-created script runtimes.
const scriptPoolSize = 4

// Server wires the shell together and owns the HTTP listener.
type Server struct {
	router   *gin.Engine
	httpSrv  *http.Server
	registry *tabs.Registry
	host     *frame.Host
	hub      *ws.Hub
	scripts  *script.Pool
	logger   *logging.Logger
	config   *config.Config
}

// New assembles all shell components from configuration.
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
		gin.SetMode(gin.DebugMode)
	} else {
		logger = logging.NewDefault()
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("initializing shell",
		zap.String("port", cfg.Server.Port),
		zap.Duration("load_timeout", cfg.Browser.LoadTimeout),
		zap.String("search_engine", cfg.Browser.SearchEngine),
	)

	metrics := monitoring.NewMetrics()
	hub := ws.NewHub(logger, metrics)

	fetcher := frame.NewFetcher(cfg.Browser.FetchTimeout, cfg.Browser.ShellOrigin)
	host := frame.NewHost(fetcher, metrics, logger)

	ctrl := tabs.NewController(cfg.Browser.LoadTimeout, func(state types.LoadState, message string) {
		hub.Emit(types.WSMessage{Type: "state", State: string(state), Message: message})
	})
	registry := tabs.NewRegistry(nav.NewResolver(cfg.Browser.SearchEngine), host, ctrl, hub, logger)
	host.SetSink(registry)

	executor := agent.NewExecutor(registry, host, cfg.Browser.ActionDelay, logger)

	workflows := workflow.NewStore(cfg.Storage.WorkflowsPath, logger)
	recorder := workflow.NewRecorder(workflows)
	settingsStore := settings.NewStore(cfg.Storage.SettingsPath, logger)

	scripts, err := script.NewPool(script.DefaultConfig(), scriptPoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create script pool: %w", err)
	}

	handlers := shellhttp.NewHandlers(
		registry, host, executor, recorder, workflows,
		settingsStore, scripts, cfg.Agent, metrics, logger,
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.Browser.ShellOrigin))
	router.Use(middleware.RateLimit(cfg.RateLimit))
	router.Use(monitoring.Middleware(metrics))

	registerRoutes(router, handlers, hub, metrics)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	return &Server{
		router:   router,
		httpSrv:  &http.Server{Addr: addr, Handler: router},
		registry: registry,
		host:     host,
		hub:      hub,
		scripts:  scripts,
		logger:   logger,
		config:   cfg,
	}, nil
}

func registerRoutes(router *gin.Engine, h *shellhttp.Handlers, hub *ws.Hub, metrics *monitoring.Metrics) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/metrics", monitoring.Handler(metrics))
	router.GET("/stream", hub.HandleConnection)

	// tab lifecycle and navigation
	router.GET("/tabs", h.ListTabs)
	router.POST("/tabs", h.CreateTab)
	router.DELETE("/tabs/:id", h.CloseTab)
	router.POST("/tabs/:id/activate", h.ActivateTab)
	router.POST("/tabs/:id/navigate", h.Navigate)
	router.POST("/tabs/:id/back", h.GoBack)
	router.POST("/tabs/:id/forward", h.GoForward)
	router.POST("/tabs/:id/home", h.GoHome)
	router.POST("/tabs/:id/reload", h.Reload)
	router.GET("/tabs/:id/frame", h.Frame)

	// command pipeline
	router.POST("/command", h.Command)
	router.POST("/actions", h.Batch)
	router.POST("/script", h.Script)

	// workflows and teach mode
	router.GET("/workflows", h.ListWorkflows)
	router.POST("/workflows", h.SaveWorkflow)
	router.POST("/workflows/record", h.StartRecording)
	router.POST("/workflows/record/stop", h.StopRecording)
	router.DELETE("/workflows/record", h.AbortRecording)
	router.GET("/workflows/:id", h.GetWorkflow)
	router.DELETE("/workflows/:id", h.DeleteWorkflow)
	router.POST("/workflows/:id/replay", h.ReplayWorkflow)

	// settings
	router.GET("/settings", h.ListSettings)
	router.PUT("/settings", h.SetSetting)
	router.GET("/settings/export", h.ExportSettings)
	router.POST("/settings/import", h.ImportSettings)
	router.GET("/settings/:key", h.GetSetting)
	router.POST("/settings/:key/reset", h.ResetSetting)
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the listener and blocks until it stops.
func (s *Server) Run() error {
	s.logger.Info("shell listening", zap.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains connections and releases resources.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	err := s.httpSrv.Shutdown(ctx)
	s.scripts.Close()
	s.logger.Sync()
	return err
}
