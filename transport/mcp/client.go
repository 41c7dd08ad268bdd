package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/pong/game/physics"
	"github.com/wricardo/mcp-training/pong/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Pong Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Pong Server - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Players connect over WebSocket at /ws and are paired into two-player matches.
A match ends as soon as either player disconnects. These tools let you observe
and administer the running server; they cannot move paddles.

AVAILABLE TOOLS:
- list_sessions: List live sessions with state and score
- get_session: Inspect one session (ball position, speed, score, players)
- end_session: End a session and disconnect both players
- server_stats: Session and connection counts
- field_constants: Playing-field geometry and ball speeds`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	sessionIDSchema := map[string]interface{}{
		"session_id": map[string]interface{}{
			"type":        "string",
			"description": "Session ID",
		},
	}

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all live pong sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: sessionIDSchema,
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "end_session",
		Description: "End a session immediately, disconnecting both players",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: sessionIDSchema,
			Required:   []string{"session_id"},
		},
	}, c.handleEndSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "server_stats",
		Description: "Get counts of live sessions, waiting players and open connections",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleServerStats)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "field_constants",
		Description: "Get the playing-field dimensions, paddle geometry and ball speeds",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleFieldConstants)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall makes an HTTP call to the REST API
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionIDArg(request mcp.CallToolRequest) (string, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return sessionID, nil
}

// Tool handlers

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Live Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (%s, Score: %d-%d, Created: %s)\n",
			s.ID, s.State, s.Score[0], s.Score[1], s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := sessionIDArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	err = c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleEndSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := sessionIDArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	err = c.apiCall(ctx, "DELETE", fmt.Sprintf("/api/sessions/%s", sessionID), nil, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Session %s ended", sessionID)), nil
}

func (c *Client) handleServerStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var stats service.Stats
	if err := c.apiCall(ctx, "GET", "/api/stats", nil, &stats); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Sessions: %d\nWaiting for opponent: %d\nRunning: %d\nConnections: %d\n",
		stats.Sessions, stats.Waiting, stats.Running, stats.Connections)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleFieldConstants(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var field physics.Field
	if err := c.apiCall(ctx, "GET", "/api/field", nil, &field); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatField(&field)), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", session.ID)
	fmt.Fprintf(&b, "State: %s\n", session.State)
	fmt.Fprintf(&b, "Created: %s\n", session.CreatedAt.Format("2006-01-02 15:04:05"))
	if session.StartedAt != nil {
		fmt.Fprintf(&b, "Started: %s\n", session.StartedAt.Format("2006-01-02 15:04:05"))
	}
	if len(session.Players) == 0 {
		b.WriteString("Players: none\n")
	} else {
		fmt.Fprintf(&b, "Players: %s\n", strings.Join(session.Players, ", "))
	}
	fmt.Fprintf(&b, "Score: %d - %d\n", session.Score[0], session.Score[1])
	fmt.Fprintf(&b, "Ball: (%.1f, %.1f) speed %.1f\n",
		session.Ball.Position.X, session.Ball.Position.Y, session.Ball.Speed)
	fmt.Fprintf(&b, "Ticks: %d\n", session.Ticks)
	return b.String()
}

func formatField(f *physics.Field) string {
	return fmt.Sprintf("Field: %.0f x %.0f\nPaddle: %.0f x %.0f, %.0f from edge\nBall radius: %.0f\nBall speed: %.0f, +%.0f per paddle hit\n",
		f.Width, f.Height, f.PaddleWidth, f.PaddleHeight, f.PaddleToEdgeDistance,
		f.BallRadius, f.BallStartingSpeed, f.BallSpeedIncrement)
}
