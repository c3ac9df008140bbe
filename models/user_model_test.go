package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{
			name: "complete document",
			user: User{ID: "u1", Username: "alice", Email: "a@x.com"},
		},
		{
			name:    "missing id",
			user:    User{Username: "alice", Email: "a@x.com"},
			wantErr: true,
		},
		{
			name:    "missing username",
			user:    User{ID: "u1", Email: "a@x.com"},
			wantErr: true,
		},
		{
			name:    "missing email",
			user:    User{ID: "u1", Username: "alice"},
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.user.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFriendSetHelpers(t *testing.T) {
	user := User{
		Friends: []string{"f1"},
		FriendRequests: FriendRequests{
			Incoming: []string{"i1"},
			Outgoing: []string{"o1"},
		},
	}
	assert.True(t, user.IsFriend("f1"))
	assert.False(t, user.IsFriend("i1"))
	assert.True(t, user.HasPendingWith("i1"))
	assert.True(t, user.HasPendingWith("o1"))
	assert.False(t, user.HasPendingWith("f1"))
}

func TestCoordinatesInRange(t *testing.T) {
	assert.True(t, Coordinates{Latitude: 1.35, Longitude: 103.82}.InRange())
	assert.True(t, Coordinates{Latitude: -90, Longitude: 180}.InRange())
	assert.False(t, Coordinates{Latitude: 90.1, Longitude: 0}.InRange())
	assert.False(t, Coordinates{Latitude: 0, Longitude: -180.1}.InRange())
}

func TestShareValidate(t *testing.T) {
	share := LocationShare{From: "a", To: "b", Coordinates: Coordinates{Latitude: 1, Longitude: 1}}
	assert.NoError(t, share.Validate())

	share.To = ""
	assert.Error(t, share.Validate())

	share.To = "b"
	share.Coordinates.Latitude = 200
	assert.Error(t, share.Validate())
}
