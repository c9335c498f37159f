package nexus

import (
	"fmt"

	"github.com/Desarso/nexus/hospital"
	"github.com/Desarso/nexus/models/gemini"
	"github.com/Desarso/nexus/sessions"
	"github.com/Desarso/nexus/stores"
	"github.com/Desarso/nexus/subagents"
	"github.com/rs/zerolog"
)

// App is the fully wired service shared by the HTTP server and the CLI.
type App struct {
	Config   *Config
	Logger   zerolog.Logger
	Hospital *hospital.Store
	Executor *subagents.Executor
	Agent    *Agent
	Store    stores.Store // nil when NEXUS_STORE=none
	Sessions *sessions.Manager
}

// NewApp wires the Gemini backend. The API key is not needed until the
// first request reaches the model.
func NewApp(cfg *Config, logger zerolog.Logger) (*App, error) {
	model := &gemini.Gemini_Model{
		Model:      cfg.ModelName,
		Credential: cfg.Credential,
		Logger:     logger.With().Str("component", "gemini").Logger(),
	}
	return NewAppWithModel(cfg, model, logger)
}

// NewAppWithModel wires everything around an arbitrary backend.
func NewAppWithModel(cfg *Config, model Model, logger zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Hospital: hospital.NewStore(),
	}
	app.Executor = subagents.NewExecutor(app.Hospital,
		subagents.WithDelay(cfg.ToolLatency),
		subagents.WithLogger(logger.With().Str("component", "subagents").Logger()),
	)

	agent, err := Create_Agent(model, app.Executor, nil)
	if err != nil {
		return nil, err
	}
	agent.Model_Name = cfg.ModelName
	app.Agent = agent

	if cfg.StoreType != StoreNone {
		store, err := stores.NewStore(stores.NewStoreConfig(cfg.StoreType, cfg.StoreDSN), logger.With().Str("component", "store").Logger())
		if err != nil {
			return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreType, err)
		}
		app.Store = store
	}

	app.Sessions = sessions.NewManager(app.newSession, logger.With().Str("component", "sessions").Logger())
	return app, nil
}

func (app *App) newSession(conversationID string) *sessions.Session {
	opts := []sessions.Option{
		sessions.WithLogger(app.Logger),
		sessions.WithWelcome(),
	}
	if app.Store != nil {
		opts = append(opts, sessions.WithStore(app.Store), sessions.WithTraceStore(app.Store))
	}
	if app.Config.PrimeHistory {
		opts = append(opts, sessions.WithPrimer())
	}
	return sessions.NewSession(conversationID, app.Agent, opts...)
}

// StartCleanup schedules the idle-session sweep from the configuration.
func (app *App) StartCleanup() error {
	return app.Sessions.StartCleanup(app.Config.CleanupSchedule, app.Config.SessionTTL)
}

func (app *App) Close() error {
	app.Sessions.Stop()
	if app.Store != nil {
		return app.Store.Close()
	}
	return nil
}
