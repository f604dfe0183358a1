package gateway

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/aidankmcalister/dles-fun/go/internal/httputil"
)

// WebSocketHandler handles WebSocket upgrade requests for race connections
type WebSocketHandler struct {
	connectionManager *ConnectionManager
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cm *ConnectionManager) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
	}
}

// HandleRaceConnection handles WebSocket connections for a specific race.
// Anyone may watch a race, so no authentication is required here.
func (h *WebSocketHandler) HandleRaceConnection(w http.ResponseWriter, r *http.Request) {
	raceIDStr := r.URL.Query().Get("race_id")
	if raceIDStr == "" {
		http.Error(w, "race_id is required", http.StatusBadRequest)
		return
	}

	raceID, err := uuid.Parse(raceIDStr)
	if err != nil {
		http.Error(w, "invalid race_id format", http.StatusBadRequest)
		return
	}

	// Subject is informational only; guests connect without one.
	subject := ""
	if ident, ok := httputil.CallerIdentity(r); ok {
		if userID, isUser := ident.UserID(); isUser {
			subject = userID.String()
		}
	}

	if err := h.connectionManager.UpgradeConnection(w, r, subject, raceID); err != nil {
		log.Error().
			Err(err).
			Str("race_id", raceID.String()).
			Msg("failed to upgrade WebSocket connection")
		http.Error(w, "failed to upgrade connection", http.StatusInternalServerError)
		return
	}

	// Connection is now handled by the connection manager
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, h.connectionManager.GetConnectionStats())
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/race", h.HandleRaceConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
