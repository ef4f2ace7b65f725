package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"browser-mcp/internal/application/catalog"
	"browser-mcp/internal/application/port/output"
	"browser-mcp/internal/di"
	"browser-mcp/internal/infrastructure/browser/rod"
	"browser-mcp/internal/infrastructure/env"
	"browser-mcp/internal/infrastructure/logger"
)

var version = "dev"

const teardownTimeout = 15 * time.Second

type options struct {
	transport    string
	addr         string
	profile      string
	defaultsFile string
	logLevel     string
}

func newRootCmd() *cobra.Command {
	cfg, notes := env.NewEnvService()
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "browser-mcp",
		Short:         "Serve browser automation tools over the Model Context Protocol",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, containerConfig(cfg, opts), notes)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.transport, "transport", cfg.GetWithDefault("MCP_TRANSPORT", "stdio"), "Transport: stdio or http")
	flags.StringVar(&opts.addr, "addr", cfg.GetWithDefault("MCP_ADDR", ":8080"), "Listen address for the http transport")
	flags.StringVar(&opts.profile, "profile", cfg.GetWithDefault("CATALOG_PROFILE", catalog.ProfileStandard), "Tool defaults profile: standard or extended")
	flags.StringVar(&opts.defaultsFile, "defaults", cfg.Get("CATALOG_DEFAULTS_FILE"), "YAML file overriding profile defaults")
	flags.StringVar(&opts.logLevel, "log-level", cfg.GetWithDefault("LOG_LEVEL", "info"), "Log level: debug, info, warn or error")

	cmd.AddCommand(newToolsCmd(cfg, opts), newVersionCmd())
	return cmd
}

func containerConfig(cfg output.ConfigPort, opts *options) di.Config {
	browser := rod.DefaultConfig()
	browser.Bin = cfg.Get("BROWSER_BIN")
	browser.NoSandbox = cfg.GetBool("BROWSER_NO_SANDBOX", browser.NoSandbox)
	browser.Stealth = cfg.GetBool("BROWSER_STEALTH", false)
	browser.Trace = cfg.GetBool("BROWSER_TRACE", false)

	return di.Config{
		Name:         "browser-mcp",
		Version:      version,
		Profile:      opts.profile,
		DefaultsFile: opts.defaultsFile,
		BlockLevel:   cfg.Get("BROWSER_BLOCK_LEVEL"),
		UserAgent:    cfg.Get("BROWSER_USER_AGENT"),
		InspectMode:  cfg.GetWithDefault("INSPECT_MODE", di.InspectLive),
		Browser:      browser,
		Log: logger.Config{
			Level:  opts.logLevel,
			Format: cfg.GetWithDefault("LOG_FORMAT", "console"),
			Dir:    cfg.Get("LOG_DIR"),
			Name:   "browser-mcp_" + opts.transport,
		},
	}
}

func run(ctx context.Context, opts *options, cfg di.Config, notes []string) error {
	if opts.transport != "stdio" && opts.transport != "http" {
		return fmt.Errorf("unknown transport %q (want stdio or http)", opts.transport)
	}

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	for _, note := range notes {
		container.Logger.Debug("Environment", "note", note)
	}

	var serveErr error
	switch opts.transport {
	case "http":
		serveErr = container.Server.ServeHTTP(ctx, opts.addr)
	default:
		serveErr = container.Server.ServeStdio(ctx, os.Stdin, os.Stdout, container.Logger.StdLog())
	}

	// Teardown errors are logged by Close and never change the exit status.
	teardownCtx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
	defer cancel()
	_ = container.Close(teardownCtx)

	return serveErr
}

func newToolsCmd(cfg output.ConfigPort, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the advertised tool catalog as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := containerConfig(cfg, opts)
			conf.Log.Level = "error"
			conf.Log.Dir = ""
			container, err := di.NewContainer(cmd.Context(), conf)
			if err != nil {
				return err
			}
			defer container.Close(context.Background())

			type toolJSON struct {
				Name        string                 `json:"name"`
				Description string                 `json:"description"`
				InputSchema map[string]interface{} `json:"inputSchema"`
			}
			var out []toolJSON
			for _, d := range container.Dispatcher.Definitions() {
				out = append(out, toolJSON{Name: d.Name.String(), Description: d.Description, InputSchema: d.Parameters})
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
