package services

import (
	"context"
	"log"

	"pickmeup-server/models"
	"pickmeup-server/session"
	"pickmeup-server/store"
	"pickmeup-server/utils/errors"
)

// FriendService owns the friend-relationship protocol: searching users,
// the request/accept/reject lifecycle and the symmetric friends set.
type FriendService struct {
	users store.UserStore
}

func NewFriendService(users store.UserStore) *FriendService {
	return &FriendService{users: users}
}

// Search returns users whose username equals the term exactly, excluding the
// caller. An empty term returns an empty list without touching the store.
func (s *FriendService) Search(ctx context.Context, username string) ([]models.User, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, errors.ErrUnauthorized
	}
	if username == "" {
		return []models.User{}, nil
	}

	found, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	results := []models.User{}
	for _, user := range found {
		if user.ID != sess.UID {
			results = append(results, user)
		}
	}
	return results, nil
}

// SendRequest records a pending request from the caller to targetID. The
// target must exist and the pair must not already be friends or pending in
// either direction.
func (s *FriendService) SendRequest(ctx context.Context, targetID string) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return errors.ErrUnauthorized
	}
	if targetID == "" || targetID == sess.UID {
		return errors.ErrInvalidInput
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	caller, err := s.users.GetByID(ctx, sess.UID)
	if err != nil {
		return err
	}
	if caller.IsFriend(targetID) {
		return errors.ErrAlreadyFriends
	}
	if caller.HasPendingWith(targetID) {
		return errors.ErrRequestPending
	}

	if err := s.users.SendRequest(ctx, sess.UID, targetID); err != nil {
		return err
	}
	log.Printf("Friend request sent from %s to %s", caller.Username, target.Username)
	return nil
}

// ListIncoming materializes the caller's incoming request set into users.
func (s *FriendService) ListIncoming(ctx context.Context) ([]models.User, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, errors.ErrUnauthorized
	}
	caller, err := s.users.GetByID(ctx, sess.UID)
	if err != nil {
		return nil, err
	}
	return s.users.GetManyByIDs(ctx, caller.FriendRequests.Incoming)
}

// Accept turns a pending request from requesterID into an entry in both
// friends sets and clears the request on both sides.
func (s *FriendService) Accept(ctx context.Context, requesterID string) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return errors.ErrUnauthorized
	}
	if requesterID == "" || requesterID == sess.UID {
		return errors.ErrInvalidInput
	}

	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return err
	}
	if err := s.users.AcceptRequest(ctx, sess.UID, requesterID); err != nil {
		return err
	}
	log.Printf("Friend request from %s accepted by %s", requester.Username, sess.Username)
	return nil
}

// Reject clears the pending request from requesterID on both sides without
// touching the friends sets. Rejecting a request that is not pending is a
// no-op.
func (s *FriendService) Reject(ctx context.Context, requesterID string) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return errors.ErrUnauthorized
	}
	if requesterID == "" || requesterID == sess.UID {
		return errors.ErrInvalidInput
	}
	return s.users.RejectRequest(ctx, sess.UID, requesterID)
}

// ListFriends materializes the caller's friends set into users.
func (s *FriendService) ListFriends(ctx context.Context) ([]models.User, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, errors.ErrUnauthorized
	}
	caller, err := s.users.GetByID(ctx, sess.UID)
	if err != nil {
		return nil, err
	}
	return s.users.GetManyByIDs(ctx, caller.Friends)
}

// Unfriend removes the caller and targetID from each other's friends sets.
func (s *FriendService) Unfriend(ctx context.Context, targetID string) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return errors.ErrUnauthorized
	}
	if targetID == "" || targetID == sess.UID {
		return errors.ErrInvalidInput
	}
	if err := s.users.Unfriend(ctx, sess.UID, targetID); err != nil {
		return err
	}
	log.Printf("%s unfriended %s", sess.UID, targetID)
	return nil
}
