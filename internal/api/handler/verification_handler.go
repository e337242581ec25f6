package handler

import (
	"net/http"

	"studyhub/internal/api/middleware"
	"studyhub/internal/app/service"
	"studyhub/internal/common"
	"studyhub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type VerificationHandler struct {
	verificationService *service.VerificationService
}

func NewVerificationHandler(vs *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: vs}
}

// RegisterRoutes mounts the verify route under /tasks.
func (h *VerificationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{taskID}/verify", h.verifyTask)
}

func (h *VerificationHandler) verifyTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	taskID := chi.URLParam(r, "taskID")
	result, err := h.verificationService.VerifyTaskSolution(r.Context(), userID, taskID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	// A refused verification is still a well-formed answer; only the
	// concurrent-check refusal gets a conflict status.
	status := http.StatusOK
	if result.Reason == model.VerifyInProgress {
		status = http.StatusConflict
	}
	common.RespondWithJSON(w, status, result)
}
