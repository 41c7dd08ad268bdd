// Package api provides the HTTP surface of the pong server.
//
// Endpoints:
//
// Sessions:
//   - GET /api/sessions - List live sessions
//   - GET /api/sessions/{id} - Get one live session
//   - DELETE /api/sessions/{id} - End a session and disconnect its players
//
// Server:
//   - GET /api/stats - Session and connection counts
//   - GET /api/field - Playing-field constants
//   - GET /api/health - Liveness probe
//
// Players connect through the WebSocket endpoint:
//   - GET /ws - Upgrade and enter matchmaking (?codec=json|msgpack)
//
// Every other path is served from the static directory, which normally holds
// the browser client.
//
// Usage:
//
//	server := api.NewServer(gameService, hub, "./static")
//	http.ListenAndServe(":8080", server)
//
// Errors are returned as {"error": "message"} with an appropriate status code.
package api
