package handlers

import (
	"encoding/json"
	"net/http"

	"pickmeup-server/middleware"
	"pickmeup-server/models"
	"pickmeup-server/services"
	"pickmeup-server/utils/errors"
)

type FriendHandler struct {
	friendService *services.FriendService
}

type friendListResponse struct {
	Friends []models.User `json:"friends"`
	Count   int           `json:"count"`
}

type requestListResponse struct {
	Incoming []models.User `json:"incoming"`
	Count    int           `json:"count"`
}

func NewFriendHandler(friendService *services.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

func (h *FriendHandler) Search(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")

	results, err := h.friendService.Search(r.Context(), username)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"results": results, "count": len(results)})
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RecipientID string `json:"recipient_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.friendService.SendRequest(r.Context(), input.RecipientID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Friend request sent"})
}

func (h *FriendHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	incoming, err := h.friendService.ListIncoming(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requestListResponse{Incoming: incoming, Count: len(incoming)})
}

func (h *FriendHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	var input struct {
		SenderID string `json:"sender_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.friendService.Accept(r.Context(), input.SenderID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Friend request accepted"})
}

func (h *FriendHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	var input struct {
		SenderID string `json:"sender_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.friendService.Reject(r.Context(), input.SenderID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Friend request rejected"})
}

func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.friendService.ListFriends(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(friendListResponse{Friends: friends, Count: len(friends)})
}

func (h *FriendHandler) Unfriend(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TargetID string `json:"target_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.friendService.Unfriend(r.Context(), input.TargetID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Unfriended"})
}
