// Package mcp provides a Model Context Protocol server for operating the pong
// server.
//
// The MCP server is a thin client over the REST API: every tool call becomes
// one HTTP request against a running server. It can observe and administer
// sessions but never plays; paddles are only moved by connected players.
//
// MCP Tools:
//   - list_sessions: List live sessions with state and score
//   - get_session: Get one session's players, ball and score
//   - end_session: End a session and disconnect both players
//   - server_stats: Session and connection counts
//   - field_constants: Playing-field geometry and ball speeds
//
// Transport Modes:
//   - Stdio: the stdio-mcp command serves the tools over stdin/stdout
//   - HTTP: the main server mounts the tools at POST /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
