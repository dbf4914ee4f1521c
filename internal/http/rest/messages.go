// Package rest exposes the message endpoint consumed by the browser-side
// helper: settings load/save for the options UI and download/notification
// event ingestion.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/downwatch/downwatch/internal/browser"
	"github.com/downwatch/downwatch/internal/logctx"
	"github.com/downwatch/downwatch/internal/notify"
	"github.com/downwatch/downwatch/internal/settings"
	"github.com/go-chi/chi/v5"
)

// MessageRequest is the envelope posted by the helper and the options UI.
type MessageRequest struct {
	Method         string                 `json:"method"`
	CommonSettings *settings.Settings     `json:"commonSettings,omitempty"`
	DownloadID     int64                  `json:"downloadId,omitempty"`
	Delta          *browser.DownloadDelta `json:"delta,omitempty"`
	NotificationID string                 `json:"notificationId,omitempty"`
}

// MessageResponse is the reply envelope. CommonSettings is present only for
// loadSettings.
type MessageResponse struct {
	Result         bool               `json:"result"`
	CommonSettings *settings.Settings `json:"commonSettings,omitempty"`
}

type MessageHandler struct {
	username string
	password string
	store    *settings.Store
	watcher  *notify.Watcher
}

// NewMessageHandler creates the message endpoint handler. Empty credentials
// disable basic auth (loopback-only deployments).
func NewMessageHandler(username, password string, store *settings.Store, watcher *notify.Watcher) *MessageHandler {
	return &MessageHandler{
		username: username,
		password: password,
		store:    store,
		watcher:  watcher,
	}
}

func (h *MessageHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(h.basicAuthMiddleware)

	r.Post("/message", h.HandleMessage)

	return r
}

// HandleMessage dispatches one message envelope. Event methods are accepted
// immediately and processed on a context detached from the request, since
// debounce and display timers outlive the HTTP exchange.
func (h *MessageHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	logger := logctx.LoggerFromContext(r.Context())
	logger.Debug("received message request")

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("failed to decode request", "err", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)

		return
	}

	ctx := r.Context()

	var response *MessageResponse

	switch req.Method {
	case "loadSettings":
		st, err := h.store.Load(ctx)
		if err != nil {
			logger.Error("failed to load settings, serving defaults", "err", err)
		}

		response = &MessageResponse{Result: true, CommonSettings: &st}
	case "saveSettings":
		if req.CommonSettings == nil {
			http.Error(w, "missing commonSettings", http.StatusBadRequest)

			return
		}

		if err := h.store.Save(ctx, *req.CommonSettings); err != nil {
			logger.Error("failed to save settings", "err", err)
			http.Error(w, "failed to save settings", http.StatusInternalServerError)

			return
		}

		response = &MessageResponse{Result: true}
	case "downloadCreated":
		h.watcher.HandleDownloadCreated(context.WithoutCancel(ctx), req.DownloadID)

		response = &MessageResponse{Result: true}
	case "downloadChanged":
		if req.Delta == nil {
			http.Error(w, "missing delta", http.StatusBadRequest)

			return
		}

		h.watcher.HandleDownloadChanged(context.WithoutCancel(ctx), *req.Delta)

		response = &MessageResponse{Result: true}
	case "notificationClicked":
		go h.watcher.HandleNotificationClicked(context.WithoutCancel(ctx), req.NotificationID)

		response = &MessageResponse{Result: true}
	default:
		logger.Error("unknown method", "method", req.Method)
		http.Error(w, fmt.Sprintf("unknown method %s", req.Method), http.StatusBadRequest)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("failed to encode response", "err", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)

		return
	}
}

func (h *MessageHandler) basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.username == "" && h.password == "" {
			next.ServeHTTP(w, r)

			return
		}

		username, password, ok := r.BasicAuth()
		if !ok {
			http.Error(w, "invalid authorization format", http.StatusUnauthorized)

			return
		}

		if username != h.username || password != h.password {
			http.Error(w, "invalid username or password", http.StatusUnauthorized)

			return
		}

		next.ServeHTTP(w, r)
	})
}
