package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"studyhub/internal/api/middleware"
	"studyhub/internal/app/service"
	"studyhub/internal/common"

	"github.com/go-chi/chi/v5"
)

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(ms *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: ms}
}

// RegisterRoutes mounts the chat routes under /groups.
func (h *MessageHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{groupID}/messages", h.postMessage)
	r.Get("/{groupID}/messages", h.listMessages)
}

func (h *MessageHandler) postMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	groupID := chi.URLParam(r, "groupID")
	var req service.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	msg, err := h.messageService.PostMessage(r.Context(), userID, groupID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) listMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	groupID := chi.URLParam(r, "groupID")

	var after time.Time
	if afterStr := r.URL.Query().Get("after"); afterStr != "" {
		parsed, err := time.Parse(time.RFC3339, afterStr)
		if err != nil {
			common.RespondWithError(w, http.StatusBadRequest, "Invalid 'after' timestamp, expected RFC3339")
			return
		}
		after = parsed
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	messages, err := h.messageService.ListMessages(r.Context(), userID, groupID, after, limit)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, messages)
}
