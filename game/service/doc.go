// Package service provides the read and control layer over live pong sessions.
//
// GameService is the facade used by the REST API and the MCP tool server. It
// never drives gameplay: players only interact with sessions through their
// websocket connections. The service exposes what an operator needs:
//   - Listing live sessions and inspecting one by ID
//   - Ending a session, which closes both players' connections
//   - Aggregate statistics across the matchmaker and the websocket hub
//   - The fixed playing-field constants
//
// Usage:
//
//	mm := matchmaker.New()
//	hub := websocket.NewHub(mm, settings)
//	svc := service.NewGameService(mm, hub)
//
//	sessions, err := svc.ListSessions(ctx)
package service
