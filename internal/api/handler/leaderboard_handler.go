package handler

import (
	"net/http"

	"studyhub/internal/app/service"
	"studyhub/internal/common"
	"studyhub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

func NewLeaderboardHandler(ls *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: ls}
}

// RegisterRoutes mounts the leaderboard route under /groups.
func (h *LeaderboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{groupID}/leaderboard", h.groupLeaderboard)
}

func (h *LeaderboardHandler) groupLeaderboard(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	tf, err := model.ParseTimeframe(r.URL.Query().Get("timeframe"))
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.leaderboardService.GroupLeaderboard(r.Context(), groupID, tf)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	type LeaderboardResponse struct {
		GroupID   string                   `json:"group_id"`
		Timeframe string                   `json:"timeframe"`
		Entries   []model.LeaderboardEntry `json:"entries"`
	}
	common.RespondWithJSON(w, http.StatusOK, LeaderboardResponse{
		GroupID:   groupID,
		Timeframe: string(tf),
		Entries:   entries,
	})
}
