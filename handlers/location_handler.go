package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pickmeup-server/middleware"
	"pickmeup-server/services"
	"pickmeup-server/utils/errors"
)

type LocationHandler struct {
	locationService *services.LocationService
}

type nearbyFriendsResponse struct {
	NearbyFriends []services.NearbyFriend `json:"nearby_friends"`
	Count         int                     `json:"count"`
	Lat           float64                 `json:"lat"`
	Lon           float64                 `json:"lon"`
	Radius        float64                 `json:"radius"`
}

func NewLocationHandler(locationService *services.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

func (h *LocationHandler) Ping(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.locationService.Ping(r.Context(), lat, lon); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "Location updated"})
}

func (h *LocationHandler) NearbyFriends(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	radius, err := strconv.ParseFloat(r.URL.Query().Get("radius"), 64)
	if err != nil || radius <= 0 {
		radius = 3 // default radius in km
	}

	friends, err := h.locationService.NearbyFriends(r.Context(), lat, lon, radius)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	response := nearbyFriendsResponse{
		NearbyFriends: friends,
		Count:         len(friends),
		Lat:           lat,
		Lon:           lon,
		Radius:        radius,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
