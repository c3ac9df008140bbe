package services

import (
	"context"
	"log"

	"pickmeup-server/models"
	"pickmeup-server/session"
	"pickmeup-server/store"
	"pickmeup-server/utils/errors"
)

// LocationService resolves and records the caller's current coordinate and
// answers nearby-friend queries over the geo index.
type LocationService struct {
	users     store.UserStore
	locations store.LocationCache
}

type NearbyFriend struct {
	Username string  `json:"username"`
	UserID   string  `json:"user_id"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Distance float64 `json:"distance"`
}

func NewLocationService(users store.UserStore, locations store.LocationCache) *LocationService {
	return &LocationService{users: users, locations: locations}
}

// Ping records the caller's current coordinate. This is what makes a
// location "resolved" for sharing; the entry expires if not refreshed.
func (s *LocationService) Ping(ctx context.Context, lat, lon float64) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return errors.ErrUnauthorized
	}
	coords := models.Coordinates{Latitude: lat, Longitude: lon}
	if !coords.InRange() {
		return errors.ErrInvalidInput
	}

	if err := s.locations.PutLocation(ctx, sess.UID, coords); err != nil {
		return err
	}
	if err := s.users.SetLastLocation(ctx, sess.UID, coords); err != nil {
		return err
	}
	log.Printf("Updated location for user %s: lat=%f, lon=%f", sess.UID, lat, lon)
	return nil
}

// NearbyFriends returns the caller's friends with a fresh location within
// radiusKM of the given point.
func (s *LocationService) NearbyFriends(ctx context.Context, lat, lon, radiusKM float64) ([]NearbyFriend, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, errors.ErrUnauthorized
	}
	center := models.Coordinates{Latitude: lat, Longitude: lon}
	if !center.InRange() || radiusKM <= 0 {
		return nil, errors.ErrInvalidInput
	}

	caller, err := s.users.GetByID(ctx, sess.UID)
	if err != nil {
		return nil, err
	}

	entries, err := s.locations.Nearby(ctx, lat, lon, radiusKM)
	if err != nil {
		return nil, err
	}

	matched := []store.GeoEntry{}
	ids := []string{}
	for _, entry := range entries {
		if entry.UID == sess.UID || !caller.IsFriend(entry.UID) {
			continue
		}
		// the geo index can hold members whose location entry has expired
		if _, fresh, err := s.locations.GetLocation(ctx, entry.UID); err != nil || !fresh {
			continue
		}
		matched = append(matched, entry)
		ids = append(ids, entry.UID)
	}

	friends, err := s.users.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	usernames := map[string]string{}
	for _, friend := range friends {
		usernames[friend.ID] = friend.Username
	}

	nearby := []NearbyFriend{}
	for _, entry := range matched {
		name, ok := usernames[entry.UID]
		if !ok {
			continue
		}
		nearby = append(nearby, NearbyFriend{
			Username: name,
			UserID:   entry.UID,
			Lat:      entry.Lat,
			Lon:      entry.Lon,
			Distance: entry.DistKM,
		})
	}
	return nearby, nil
}
