package handler

import (
	"encoding/json"
	"net/http"

	"studyhub/internal/api/middleware"
	"studyhub/internal/app/service"
	"studyhub/internal/common"

	"github.com/go-chi/chi/v5"
)

type DeckHandler struct {
	deckService *service.DeckService
}

func NewDeckHandler(ds *service.DeckService) *DeckHandler {
	return &DeckHandler{deckService: ds}
}

func (h *DeckHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/", h.createDeck)
	r.Get("/", h.myDecks)
	r.Get("/{deckID}", h.getDeck)
	r.Delete("/{deckID}", h.deleteDeck)
	r.Post("/{deckID}/cards", h.addCard)
}

func (h *DeckHandler) createDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	deck, err := h.deckService.CreateDeck(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, deck)
}

func (h *DeckHandler) myDecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	decks, err := h.deckService.MyDecks(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, decks)
}

func (h *DeckHandler) getDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	deckID := chi.URLParam(r, "deckID")
	deck, err := h.deckService.GetDeck(r.Context(), userID, deckID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, deck)
}

func (h *DeckHandler) deleteDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	deckID := chi.URLParam(r, "deckID")
	if err := h.deckService.DeleteDeck(r.Context(), userID, deckID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *DeckHandler) addCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	deckID := chi.URLParam(r, "deckID")
	var req service.AddCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	card, err := h.deckService.AddCard(r.Context(), userID, deckID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, card)
}
