package models

import (
	"fmt"
	"time"
)

// FriendRequests holds the two pending sides of the request protocol.
// A uid never appears in incoming and outgoing (or friends) at the same time
// with respect to the same peer; the store transitions keep that invariant.
type FriendRequests struct {
	Incoming []string `json:"incoming" bson:"incoming"`
	Outgoing []string `json:"outgoing" bson:"outgoing"`
}

type User struct {
	ID             string         `json:"id" bson:"_id"`
	Username       string         `json:"username" bson:"username"`
	Email          string         `json:"email" bson:"email"`
	PasswordHash   string         `json:"-" bson:"password_hash"`
	Friends        []string       `json:"friends" bson:"friends"`
	FriendRequests FriendRequests `json:"friend_requests" bson:"friend_requests"`
	LastLocation   *Coordinates   `json:"last_location,omitempty" bson:"last_location,omitempty"`
	CreatedAt      time.Time      `json:"created_at" bson:"created_at"`
}

// Validate rejects documents that came back from the store with required
// fields missing, so a partial document surfaces as an error instead of an
// empty-looking user.
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user document missing id")
	}
	if u.Username == "" {
		return fmt.Errorf("user document %s missing username", u.ID)
	}
	if u.Email == "" {
		return fmt.Errorf("user document %s missing email", u.ID)
	}
	return nil
}

// IsFriend reports whether uid is in the user's friends set.
func (u *User) IsFriend(uid string) bool {
	return containsID(u.Friends, uid)
}

// HasPendingWith reports whether a request between the user and uid is
// pending in either direction.
func (u *User) HasPendingWith(uid string) bool {
	return containsID(u.FriendRequests.Incoming, uid) || containsID(u.FriendRequests.Outgoing, uid)
}

func containsID(ids []string, uid string) bool {
	for _, id := range ids {
		if id == uid {
			return true
		}
	}
	return false
}
