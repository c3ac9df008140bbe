package services

import (
	"context"
	"log"
	"sync"

	"pickmeup-server/models"
	"pickmeup-server/session"
	"pickmeup-server/store"
	"pickmeup-server/utils/errors"
)

// ShareService is the location-share ledger: append-only creation, queried
// by recipient, deletable one at a time or in bulk.
type ShareService struct {
	shares    store.ShareStore
	users     store.UserStore
	locations store.LocationCache
}

func NewShareService(shares store.ShareStore, users store.UserStore, locations store.LocationCache) *ShareService {
	return &ShareService{shares: shares, users: users, locations: locations}
}

// Create shares the caller's currently-resolved coordinate with recipientID.
// Without a fresh location ping there is nothing to share and no document is
// inserted.
func (s *ShareService) Create(ctx context.Context, recipientID string) (models.LocationShare, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return models.LocationShare{}, errors.ErrUnauthorized
	}
	if recipientID == "" || recipientID == sess.UID {
		return models.LocationShare{}, errors.ErrInvalidInput
	}

	coords, resolved, err := s.locations.GetLocation(ctx, sess.UID)
	if err != nil {
		return models.LocationShare{}, err
	}
	if !resolved {
		return models.LocationShare{}, errors.ErrNoLocation
	}

	if _, err := s.users.GetByID(ctx, recipientID); err != nil {
		return models.LocationShare{}, err
	}

	share := models.LocationShare{
		From:        sess.UID,
		To:          recipientID,
		Coordinates: coords,
	}
	if err := s.shares.Insert(ctx, &share); err != nil {
		return models.LocationShare{}, err
	}
	log.Printf("Location shared from %s to %s", sess.UID, recipientID)
	return share, nil
}

// ListReceived returns the caller's received shares with sender usernames
// resolved in one batched lookup. A share whose sender no longer exists is
// kept and labelled Unknown.
func (s *ShareService) ListReceived(ctx context.Context) ([]models.ReceivedShare, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, errors.ErrUnauthorized
	}

	shares, err := s.shares.ListForRecipient(ctx, sess.UID)
	if err != nil {
		return nil, err
	}

	senderIDs := []string{}
	seen := map[string]bool{}
	for _, share := range shares {
		if !seen[share.From] {
			seen[share.From] = true
			senderIDs = append(senderIDs, share.From)
		}
	}
	senders, err := s.users.GetManyByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	usernames := map[string]string{}
	for _, sender := range senders {
		usernames[sender.ID] = sender.Username
	}

	received := make([]models.ReceivedShare, 0, len(shares))
	for _, share := range shares {
		name, ok := usernames[share.From]
		if !ok {
			name = "Unknown"
		}
		received = append(received, models.ReceivedShare{
			ID:          share.ID,
			From:        share.From,
			Sender:      name,
			Coordinates: share.Coordinates,
			Timestamp:   share.Timestamp,
		})
	}
	return received, nil
}

// Discard deletes a single received share. Discarding a share twice fails
// with not-found the second time and touches nothing else.
func (s *ShareService) Discard(ctx context.Context, shareID string) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return errors.ErrUnauthorized
	}
	if shareID == "" {
		return errors.ErrInvalidInput
	}
	return s.shares.Delete(ctx, shareID, sess.UID)
}

// ClearAll deletes every share addressed to the caller. Deletes are fired
// concurrently and all awaited; a failure partway leaves the rest deleted
// and is reported without retry.
func (s *ShareService) ClearAll(ctx context.Context) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return errors.ErrUnauthorized
	}

	shares, err := s.shares.ListForRecipient(ctx, sess.UID)
	if err != nil {
		return err
	}
	if len(shares) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(shares))
	for _, share := range shares {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := s.shares.Delete(ctx, id, sess.UID); err != nil {
				errs <- err
			}
		}(share.ID)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		// concurrent Discard may have won the race for an individual share
		if err == errors.ErrNotFound {
			continue
		}
		log.Printf("Failed to clear shares for %s: %v", sess.UID, err)
		return err
	}
	return nil
}
