package store

import (
	"context"
	"time"

	"pickmeup-server/models"
)

// UserStore is the users collection of the document store. Friend-state
// transitions (request/accept/reject/unfriend) are single logical operations:
// the Mongo implementation runs both parties' document updates in one
// transaction, so a half-applied pair state cannot be observed.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, uid string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	// FindByUsername matches the username exactly, case-sensitive.
	FindByUsername(ctx context.Context, username string) ([]models.User, error)
	// GetManyByIDs is a batched point lookup; unknown ids are skipped.
	GetManyByIDs(ctx context.Context, uids []string) ([]models.User, error)

	SendRequest(ctx context.Context, fromID, toID string) error
	AcceptRequest(ctx context.Context, userID, requesterID string) error
	RejectRequest(ctx context.Context, userID, requesterID string) error
	Unfriend(ctx context.Context, userID, targetID string) error

	SetLastLocation(ctx context.Context, uid string, c models.Coordinates) error
}

// ShareStore is the locationShares collection. Shares are append-only and
// individually deletable; there is no update.
type ShareStore interface {
	Insert(ctx context.Context, share *models.LocationShare) error
	ListForRecipient(ctx context.Context, uid string) ([]models.LocationShare, error)
	// Delete removes one share scoped to its recipient; deleting a share
	// that does not exist (or belongs to someone else) is ErrNotFound.
	Delete(ctx context.Context, shareID, recipientID string) error
}

// SessionCache tracks the active token per user. Logout deletes the entry,
// which invalidates any token still in the wild.
type SessionCache interface {
	PutSession(ctx context.Context, uid, token string, ttl time.Duration) error
	GetSession(ctx context.Context, uid string) (string, error)
	DeleteSession(ctx context.Context, uid string) error
}

// GeoEntry is one hit from a radius query over last-known locations.
type GeoEntry struct {
	UID    string
	Lat    float64
	Lon    float64
	DistKM float64
}

// LocationCache holds each user's currently-resolved coordinate. Entries
// expire, so "resolved" means pinged recently, not ever.
type LocationCache interface {
	PutLocation(ctx context.Context, uid string, c models.Coordinates) error
	GetLocation(ctx context.Context, uid string) (models.Coordinates, bool, error)
	Nearby(ctx context.Context, lat, lon, radiusKM float64) ([]GeoEntry, error)
}
