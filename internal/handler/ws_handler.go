package handler

import (
	"net/http"
	"strings"

	"driftnote-server/internal/websocket"
	"driftnote-server/pkg/jwt"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WebSocketHandler struct {
	manager   *websocket.Manager
	jwtSecret string
	upgrader  ws.Upgrader
	logger    *zap.Logger
}

func NewWebSocketHandler(manager *websocket.Manager, jwtSecret string, readBuf, writeBuf int, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		manager:   manager,
		jwtSecret: jwtSecret,
		logger:    logger,
		upgrader: ws.Upgrader{
			ReadBufferSize:  readBuf,
			WriteBufferSize: writeBuf,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}

	if token == "" {
		http.Error(w, "missing authorization token", http.StatusUnauthorized)
		return
	}

	if _, err := jwt.ValidateToken(token, h.jwtSecret); err != nil {
		h.logger.Warn("change feed token rejected", zap.Error(err))
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	client := websocket.NewClient(uuid.New().String(), conn, h.manager)
	h.manager.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
