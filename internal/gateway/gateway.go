// Package gateway exposes the agent over HTTP: query endpoints (sync,
// async, websocket), health and status, and the agent-record admin API.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/flemzord/reagent/internal/agent"
	"github.com/flemzord/reagent/internal/core"
	"github.com/flemzord/reagent/internal/cron"
	"github.com/flemzord/reagent/internal/provider"
	"github.com/flemzord/reagent/internal/record"
	"github.com/flemzord/reagent/internal/runner"
	"github.com/flemzord/reagent/internal/task"
	"github.com/flemzord/reagent/internal/tool"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Gateway{})
}

// AgentRunner is the runner surface the gateway needs. Satisfied by
// *runner.Runner; narrowed to an interface so handler tests can stub it.
type AgentRunner interface {
	Run(ctx context.Context, req runner.RunRequest) (agent.Response, time.Duration, error)
	Tools() []tool.Tool
	Chain() *provider.Chain
}

// Gateway is the HTTP gateway module. It is a leaf module — nothing
// imports it.
type Gateway struct {
	config    Config
	appCtx    *core.AppContext
	logger    *slog.Logger
	server    *http.Server
	metrics   *Metrics
	tasks     *task.Tracker
	scheduler *cron.Scheduler
	startedAt time.Time

	// Resolved lazily at Start() via service registry.
	runner AgentRunner
	store  record.Store
}

// ModuleInfo implements core.Module.
func (g *Gateway) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "gateway.http",
		New: func() core.Module { return &Gateway{} },
	}
}

// Configure implements core.Configurable.
func (g *Gateway) Configure(node *yaml.Node) error {
	if err := node.Decode(&g.config); err != nil {
		return err
	}
	g.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (g *Gateway) Provision(ctx *core.AppContext) error {
	g.appCtx = ctx
	g.logger = ctx.Logger
	g.metrics = &Metrics{}
	g.tasks = task.NewTracker()

	ctx.RegisterService("gateway.metrics", g.metrics)
	return nil
}

// Validate implements core.Validator.
func (g *Gateway) Validate() error {
	if _, err := net.ResolveTCPAddr("tcp", g.config.Bind); err != nil {
		return errors.New("gateway: invalid bind address: " + g.config.Bind)
	}
	return nil
}

// Start implements core.Starter. It resolves dependencies from the
// service registry (lazy binding) and starts the HTTP server.
func (g *Gateway) Start() error {
	svc, ok := g.appCtx.Service(runner.ServiceName)
	if !ok {
		return errors.New("gateway: agent runner is not loaded")
	}
	r, ok := svc.(AgentRunner)
	if !ok {
		return errors.New("gateway: agent.runner service has unexpected type")
	}
	g.runner = r

	// The record store is optional — admin CRUD falls back to an
	// in-memory store when no record.sqlite module is configured.
	if svc, ok := g.appCtx.Service("record.store"); ok {
		if store, ok := svc.(record.Store); ok {
			g.store = store
		}
	}
	if g.store == nil {
		g.store = record.NewMemStore()
	}

	g.scheduler = cron.NewScheduler(g.logger)
	if err := g.scheduler.RegisterJob(&cron.TaskCleanupJob{
		Store:        g.tasks,
		Retention:    g.config.TaskRetention,
		Logger:       g.logger,
		ScheduleExpr: g.config.CleanupSchedule,
	}); err != nil {
		return err
	}
	if err := g.scheduler.Start(); err != nil {
		return errors.New("gateway: starting scheduler: " + err.Error())
	}

	g.startedAt = time.Now()

	g.server = &http.Server{
		Addr:         g.config.Bind,
		Handler:      g.buildRouter(),
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", g.config.Bind)
	if err != nil {
		return errors.New("gateway: listen failed: " + err.Error())
	}

	go func() {
		g.logger.Info("gateway listening", "addr", g.config.Bind)
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Stop implements core.Stopper. Graceful shutdown with configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.scheduler != nil {
		_ = g.scheduler.Stop(ctx)
	}
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.config.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}
