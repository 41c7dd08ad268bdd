// Command pong starts the multiplayer pong server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing the WebSocket game endpoint, REST API and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, the settings file, the static client directory,
// debug logging, and optional ngrok tunneling for easy external access during
// development. Every flag can also be set through the environment or a .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/pong/api"
	"github.com/wricardo/mcp-training/pong/bot"
	"github.com/wricardo/mcp-training/pong/game/config"
	"github.com/wricardo/mcp-training/pong/game/matchmaker"
	"github.com/wricardo/mcp-training/pong/game/protocol"
	"github.com/wricardo/mcp-training/pong/game/service"
	"github.com/wricardo/mcp-training/pong/game/session"
	"github.com/wricardo/mcp-training/pong/transport/mcp"
	"github.com/wricardo/mcp-training/pong/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Pong Server"
)

const defaultAPIURL = "http://localhost:8080"

// main loads the environment, parses flags and runs the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
		}
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("exiting", "error", err)
		os.Exit(1)
	}
}

// newCommand builds the CLI. The root command runs the server.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "pong",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "JSON settings file (defaults apply when empty)",
				Sources: cli.EnvVars("PONG_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "static-dir",
				Usage:   "Directory served at / (empty disables static files)",
				Sources: cli.EnvVars("STATIC_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: runServer,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with WebSocket, API and MCP endpoint (default)",
				Action:  runServer,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server, starting an internal HTTP server when none is reachable",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "api-url",
						Value:   defaultAPIURL,
						Usage:   "REST API to proxy when it is reachable",
						Sources: cli.EnvVars("PONG_API_URL"),
					},
				},
				Action: runStdioMCP,
			},
			{
				Name:  "bot",
				Usage: "Join a match as an automated player and print the result",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "url",
						Value:   defaultAPIURL,
						Usage:   "Pong server to join",
						Sources: cli.EnvVars("PONG_API_URL"),
					},
					&cli.StringFlag{
						Name:  "codec",
						Value: "json",
						Usage: "Wire codec (json or msgpack)",
					},
				},
				Action: runBot,
			},
			{
				Name:      "validate-config",
				Usage:     "Check one or more settings files",
				ArgsUsage: "<path>...",
				Action:    runValidateConfig,
			},
			{
				Name:      "init-config",
				Usage:     "Write the default settings to a JSON file",
				ArgsUsage: "<path>",
				Action:    runInitConfig,
			},
		},
	}
}

// setupLogging installs the default slog logger on stderr. Stdout stays free
// for the MCP stdio transport.
func setupLogging(debug bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
}

// app holds the wired game components shared by both modes.
type app struct {
	settings   *config.Settings
	matchmaker *matchmaker.Matchmaker
	hub        *websocket.Hub
	service    service.GameService
	api        *api.Server
}

// newApp wires the matchmaker, WebSocket hub, game service and REST API, and
// starts the hub.
func newApp(settings *config.Settings, staticDir string) *app {
	mm := matchmaker.New(matchmaker.WithSessionOptions(
		session.WithTickInterval(time.Duration(settings.TickInterval)),
	))
	hub := websocket.NewHub(mm, settings)
	go hub.Run()

	gameService := service.NewGameService(mm, hub)
	return &app{
		settings:   settings,
		matchmaker: mm,
		hub:        hub,
		service:    gameService,
		api:        api.NewServer(gameService, hub, staticDir),
	}
}

// handler combines the API server with an /mcp endpoint backed by mcpClient.
func (a *app) handler(mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", a.api)
	if mcpClient != nil {
		mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient))
	}
	return mainRouter
}

// shutdown ends every session and disconnects every client.
func (a *app) shutdown() {
	a.matchmaker.Shutdown()
	a.hub.Close()
}

// mcpHandler serves single JSON-RPC messages over HTTP POST.
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runServer starts the HTTP server with the WebSocket game endpoint, REST API
// and /mcp endpoint. If ngrok is enabled it also provisions a public tunnel.
func runServer(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd.Bool("debug"))

	settings, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	slog.Info("starting", "app", AppName, "version", Version, "mode", "server",
		"tick", time.Duration(settings.TickInterval))

	a := newApp(settings, cmd.String("static-dir"))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	mainRouter := a.handler(mcpClient)

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     mainRouter,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		slog.Info("HTTP server listening", "addr", addr)
		slog.Info("endpoints",
			"websocket", fmt.Sprintf("ws://%s/ws", addr),
			"api", fmt.Sprintf("http://%s/api", addr),
			"mcp", fmt.Sprintf("http://%s/mcp", addr))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			stop()
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter)
		}()
	}

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown", "error", err)
	}
	a.shutdown()

	wg.Wait()
	slog.Info("server stopped")

	select {
	case err := <-serveErr:
		return fmt.Errorf("HTTP server: %w", err)
	default:
		return nil
	}
}

// runNgrok serves handler through an ngrok tunnel until ctx is cancelled.
func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		slog.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return
	}

	slog.Info("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		slog.Info("using custom ngrok domain", "domain", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		slog.Error("failed to start ngrok tunnel", "error", err)
		return
	}

	ngrokURL := tun.URL()
	slog.Info("ngrok tunnel established", "url", ngrokURL)
	slog.Info("ngrok endpoints",
		"websocket", ngrokURL+"/ws",
		"api", ngrokURL+"/api",
		"mcp", ngrokURL+"/mcp")

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			slog.Error("failed to close ngrok tunnel", "error", err)
		}
	}()

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		slog.Error("ngrok server error", "error", err)
	}
	slog.Info("ngrok tunnel closed")
}

// apiReachable reports whether a pong REST API answers at baseURL.
func apiReachable(baseURL string) bool {
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCP runs an MCP stdio server. It reuses the API at --api-url when
// reachable; otherwise it starts an internal HTTP API bound to a random
// loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd.Bool("debug"))

	baseURL := cmd.String("api-url")
	slog.Info("checking for external API server", "url", baseURL)

	if apiReachable(baseURL) {
		slog.Info("external API server found, using it for MCP", "url", baseURL)
	} else {
		slog.Info("no external API server found, starting internal HTTP server")

		settings, err := config.Load(cmd.String("config"))
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}

		a := newApp(settings, "")
		defer a.shutdown()

		httpServer := &http.Server{Handler: a.handler(nil)}
		defer httpServer.Close()

		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("internal HTTP server error", "error", err)
			}
		}()

		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())
		slog.Info("internal HTTP server started", "url", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	slog.Info("MCP stdio server ready", "api", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server: %w", err)
	}
	return nil
}

// runBot plays one match and prints its result as JSON.
func runBot(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd.Bool("debug"))

	codec, err := protocol.CodecFor(cmd.String("codec"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := bot.New(cmd.String("url"), codec).Play(ctx)
	if result != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runValidateConfig loads each settings file and reports the outcome. It
// fails when any file is invalid.
func runValidateConfig(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("validate-config: at least one path is required")
	}

	invalid := 0
	for _, path := range paths {
		if _, err := config.Load(path); err != nil {
			invalid++
			fmt.Fprintf(os.Stdout, "✗ %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(os.Stdout, "✓ %s\n", path)
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d settings files are invalid", invalid, len(paths))
	}
	return nil
}

// runInitConfig writes the default settings to the given path.
func runInitConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("init-config: path argument is required")
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote default settings to %s\n", path)
	return nil
}
