package handler

import (
	"encoding/json"
	"net/http"

	"driftnote-server/internal/backend"
	"driftnote-server/internal/config"
	"driftnote-server/pkg/response"
)

// SettingsHandler is the runtime reconfiguration entry point for the
// remote backend. Clearing the URL switches the deployment to
// local-only operation on the very next persistence call.
type SettingsHandler struct {
	gate *backend.Gate
}

func NewSettingsHandler(gate *backend.Gate) *SettingsHandler {
	return &SettingsHandler{gate: gate}
}

type remoteSettingsRequest struct {
	URL      string `json:"url"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
}

func (h *SettingsHandler) UpdateRemote(w http.ResponseWriter, r *http.Request) {
	var req remoteSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if req.Database == "" {
		req.Database = "driftnote"
	}

	h.gate.Reconfigure(config.RemoteConfig{
		URL:      req.URL,
		User:     req.User,
		Password: req.Password,
		Database: req.Database,
	})

	response.Success(w, map[string]bool{"configured": h.gate.Configured()})
}

func (h *SettingsHandler) GetRemote(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]bool{"configured": h.gate.Configured()})
}
