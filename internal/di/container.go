package di

import (
	"context"
	"fmt"

	"browser-mcp/internal/adapter/tool"
	"browser-mcp/internal/application/catalog"
	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/application/service"
	"browser-mcp/internal/domain/entity"
	"browser-mcp/internal/infrastructure/browser/htmldoc"
	"browser-mcp/internal/infrastructure/browser/rod"
	"browser-mcp/internal/infrastructure/logger"
	"browser-mcp/internal/infrastructure/mcpserver"
)

const (
	InspectLive     = "live"
	InspectSnapshot = "snapshot"
)

type Container struct {
	Logger     *logger.LoggerAdapter
	Defaults   catalog.Defaults
	Session    *service.SessionManager
	Tools      output.ToolRegistry
	Dispatcher *service.Dispatcher
	Server     *mcpserver.Server
}

type Config struct {
	Name    string
	Version string

	Profile      string
	DefaultsFile string
	// BlockLevel, when set, overrides the profile's resource blocking.
	BlockLevel string
	UserAgent  string
	// InspectMode selects the DOM backend of the inspector tools.
	InspectMode string

	Browser rod.Config
	Log     logger.Config
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	defaults, err := loadDefaults(cfg)
	if err != nil {
		log.Close()
		return nil, err
	}

	var document tool.DocumentLoader
	switch cfg.InspectMode {
	case "", InspectLive:
		document = tool.LiveDocument
	case InspectSnapshot:
		document = htmldoc.Snapshot
	default:
		log.Close()
		return nil, fmt.Errorf("unknown inspect mode %q (want %q or %q)", cfg.InspectMode, InspectLive, InspectSnapshot)
	}

	engine := rod.NewEngine(cfg.Browser, log.WithField("component", "browser"))
	session := service.NewSessionManager(engine, service.SessionConfigFrom(defaults), log.WithField("component", "session"))

	tools := service.NewToolRegistry()
	for _, t := range tool.All(tool.Deps{
		Session:  session,
		Defaults: defaults,
		Logger:   log,
		Document: document,
	}) {
		tools.Register(t)
	}

	dispatcher := service.NewDispatcher(tools, log.WithField("component", "dispatcher"))
	srv, err := mcpserver.New(mcpserver.Config{Name: cfg.Name, Version: cfg.Version}, dispatcher, session, log.WithField("component", "transport"))
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	log.Info("Container ready",
		"profile", orDefault(cfg.Profile, catalog.ProfileStandard),
		"block_level", string(defaults.BlockLevel),
		"inspect_mode", orDefault(cfg.InspectMode, InspectLive),
		"tools", len(tools.All()),
	)

	return &Container{
		Logger:     log,
		Defaults:   defaults,
		Session:    session,
		Tools:      tools,
		Dispatcher: dispatcher,
		Server:     srv,
	}, nil
}

func loadDefaults(cfg Config) (catalog.Defaults, error) {
	defaults, err := catalog.Profile(cfg.Profile)
	if err != nil {
		return catalog.Defaults{}, err
	}
	if cfg.DefaultsFile != "" {
		if defaults, err = catalog.LoadOverrides(cfg.DefaultsFile, defaults); err != nil {
			return catalog.Defaults{}, err
		}
	}
	if cfg.BlockLevel != "" {
		defaults.BlockLevel = entity.BlockLevel(cfg.BlockLevel)
	}
	if cfg.UserAgent != "" {
		defaults.UserAgent = cfg.UserAgent
	}
	if err := defaults.Validate(); err != nil {
		return catalog.Defaults{}, fmt.Errorf("catalog defaults: %w", err)
	}
	return defaults, nil
}

// Close tears down the browser session, if any, and flushes the logger.
// A session close error is logged and returned.
func (c *Container) Close(ctx context.Context) error {
	var err error
	if c.Session != nil {
		if err = c.Session.Close(ctx); err != nil {
			c.Logger.Error("Failed to close browser session", "error", err)
		}
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
	return err
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
