// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the match socket.
const (
	BadSubprotocolError   = 3000 // Client connected without the "gostop" subprotocol.
	InvalidAuthTokenError = 3001 // Token expired while the socket was open.
	NotSeatedError        = 3002 // User holds no seat in the match.
	InvalidMatchIDError   = 3003 // Match id in the URL is unknown.
)
