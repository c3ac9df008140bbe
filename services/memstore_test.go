package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"pickmeup-server/models"
	"pickmeup-server/store"
	"pickmeup-server/utils/errors"
)

// In-memory implementations of the store interfaces, with the same
// transition semantics as the Mongo versions.

type memUserStore struct {
	mu        sync.Mutex
	users     map[string]*models.User
	findCalls int
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]*models.User{}}
}

func (m *memUserStore) Insert(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return errors.ErrConflict
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memUserStore) GetByID(_ context.Context, uid string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[uid]
	if !ok {
		return models.User{}, errors.ErrNotFound
	}
	return *user, nil
}

func (m *memUserStore) GetByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return *user, nil
		}
	}
	return models.User{}, errors.ErrNotFound
}

func (m *memUserStore) FindByUsername(_ context.Context, username string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	found := []models.User{}
	for _, user := range m.users {
		if user.Username == username {
			found = append(found, *user)
		}
	}
	return found, nil
}

func (m *memUserStore) GetManyByIDs(_ context.Context, uids []string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := []models.User{}
	for _, uid := range uids {
		if user, ok := m.users[uid]; ok {
			found = append(found, *user)
		}
	}
	return found, nil
}

func (m *memUserStore) SendRequest(_ context.Context, fromID, toID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	from, ok := m.users[fromID]
	if !ok {
		return errors.ErrNotFound
	}
	to, ok := m.users[toID]
	if !ok {
		return errors.ErrNotFound
	}
	from.FriendRequests.Outgoing = addID(from.FriendRequests.Outgoing, toID)
	to.FriendRequests.Incoming = addID(to.FriendRequests.Incoming, fromID)
	return nil
}

func (m *memUserStore) AcceptRequest(_ context.Context, userID, requesterID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return errors.ErrNotFound
	}
	requester, ok := m.users[requesterID]
	if !ok {
		return errors.ErrNotFound
	}
	if !containsID(user.FriendRequests.Incoming, requesterID) {
		return errors.ErrNoPendingRequest
	}
	user.FriendRequests.Incoming = removeID(user.FriendRequests.Incoming, requesterID)
	user.Friends = addID(user.Friends, requesterID)
	requester.FriendRequests.Outgoing = removeID(requester.FriendRequests.Outgoing, userID)
	requester.Friends = addID(requester.Friends, userID)
	return nil
}

func (m *memUserStore) RejectRequest(_ context.Context, userID, requesterID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[userID]; ok {
		user.FriendRequests.Incoming = removeID(user.FriendRequests.Incoming, requesterID)
	}
	if requester, ok := m.users[requesterID]; ok {
		requester.FriendRequests.Outgoing = removeID(requester.FriendRequests.Outgoing, userID)
	}
	return nil
}

func (m *memUserStore) Unfriend(_ context.Context, userID, targetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[userID]; ok {
		user.Friends = removeID(user.Friends, targetID)
	}
	if target, ok := m.users[targetID]; ok {
		target.Friends = removeID(target.Friends, userID)
	}
	return nil
}

func (m *memUserStore) SetLastLocation(_ context.Context, uid string, c models.Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[uid]
	if !ok {
		return errors.ErrNotFound
	}
	user.LastLocation = &c
	return nil
}

func addID(ids []string, uid string) []string {
	if containsID(ids, uid) {
		return ids
	}
	return append(ids, uid)
}

func removeID(ids []string, uid string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != uid {
			out = append(out, id)
		}
	}
	return out
}

func containsID(ids []string, uid string) bool {
	for _, id := range ids {
		if id == uid {
			return true
		}
	}
	return false
}

type memShareStore struct {
	mu     sync.Mutex
	shares map[string]*models.LocationShare
	nextID int
}

func newMemShareStore() *memShareStore {
	return &memShareStore{shares: map[string]*models.LocationShare{}}
}

func (m *memShareStore) Insert(_ context.Context, share *models.LocationShare) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	share.ID = fmt.Sprintf("share-%d", m.nextID)
	share.Timestamp = time.Now().UTC()
	clone := *share
	m.shares[share.ID] = &clone
	return nil
}

func (m *memShareStore) ListForRecipient(_ context.Context, uid string) ([]models.LocationShare, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	shares := []models.LocationShare{}
	for _, share := range m.shares {
		if share.To == uid {
			shares = append(shares, *share)
		}
	}
	return shares, nil
}

func (m *memShareStore) Delete(_ context.Context, shareID, recipientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	share, ok := m.shares[shareID]
	if !ok || share.To != recipientID {
		return errors.ErrNotFound
	}
	delete(m.shares, shareID)
	return nil
}

type memSessionCache struct {
	mu       sync.Mutex
	sessions map[string]string
}

func newMemSessionCache() *memSessionCache {
	return &memSessionCache{sessions: map[string]string{}}
}

func (m *memSessionCache) PutSession(_ context.Context, uid, token string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[uid] = token
	return nil
}

func (m *memSessionCache) GetSession(_ context.Context, uid string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[uid], nil
}

func (m *memSessionCache) DeleteSession(_ context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, uid)
	return nil
}

type memLocationCache struct {
	mu        sync.Mutex
	locations map[string]models.Coordinates
}

func newMemLocationCache() *memLocationCache {
	return &memLocationCache{locations: map[string]models.Coordinates{}}
}

func (m *memLocationCache) PutLocation(_ context.Context, uid string, c models.Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[uid] = c
	return nil
}

func (m *memLocationCache) GetLocation(_ context.Context, uid string) (models.Coordinates, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.locations[uid]
	return c, ok, nil
}

func (m *memLocationCache) Nearby(_ context.Context, lat, lon, radiusKM float64) ([]store.GeoEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := []store.GeoEntry{}
	for uid, c := range m.locations {
		dist := haversineKM(lat, lon, c.Latitude, c.Longitude)
		if dist <= radiusKM {
			entries = append(entries, store.GeoEntry{UID: uid, Lat: c.Latitude, Lon: c.Longitude, DistKM: dist})
		}
	}
	return entries, nil
}

func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}
