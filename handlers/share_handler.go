package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"pickmeup-server/middleware"
	"pickmeup-server/models"
	"pickmeup-server/services"
	"pickmeup-server/utils/errors"
)

type ShareHandler struct {
	shareService *services.ShareService
}

type receivedSharesResponse struct {
	Shares []models.ReceivedShare `json:"shares"`
	Count  int                    `json:"count"`
}

func NewShareHandler(shareService *services.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

func (h *ShareHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RecipientID string `json:"recipient_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	share, err := h.shareService.Create(r.Context(), input.RecipientID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Location shared", "share_id": share.ID})
}

func (h *ShareHandler) Received(w http.ResponseWriter, r *http.Request) {
	shares, err := h.shareService.ListReceived(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(receivedSharesResponse{Shares: shares, Count: len(shares)})
}

func (h *ShareHandler) Discard(w http.ResponseWriter, r *http.Request) {
	shareID := mux.Vars(r)["id"]

	if err := h.shareService.Discard(r.Context(), shareID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Share discarded"})
}

func (h *ShareHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.shareService.ClearAll(r.Context()); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "All shares cleared"})
}
