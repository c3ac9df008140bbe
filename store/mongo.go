package store

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pickmeup-server/models"
	"pickmeup-server/utils/errors"
)

const (
	UsersCollection  = "users"
	SharesCollection = "locationShares"
)

// Connect opens the MongoDB client and verifies the connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

type MongoUserStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoUserStore(client *mongo.Client, db string) *MongoUserStore {
	collection := client.Database(db).Collection(UsersCollection)

	// Usernames and emails must each be unique
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := collection.Indexes().CreateMany(context.Background(), indexes); err != nil {
		log.Printf("Failed to create unique indexes on users: %v", err)
	}

	return &MongoUserStore{client: client, collection: collection}
}

func (s *MongoUserStore) Insert(ctx context.Context, user *models.User) error {
	_, err := s.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return errors.NewAPIError("CONFLICT", "Username or email already taken", http.StatusConflict)
	}
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "Failed to create user", http.StatusInternalServerError)
	}
	return nil
}

func (s *MongoUserStore) GetByID(ctx context.Context, uid string) (models.User, error) {
	return s.getOne(ctx, bson.M{"_id": uid})
}

func (s *MongoUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.getOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) getOne(ctx context.Context, filter bson.M) (models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, errors.ErrNotFound
	}
	if err != nil {
		return models.User{}, errors.Wrap(err, "DB_ERROR", "Failed to fetch user", http.StatusInternalServerError)
	}
	if err := user.Validate(); err != nil {
		return models.User{}, errors.Wrap(err, "DB_ERROR", "Malformed user document", http.StatusInternalServerError)
	}
	return user, nil
}

func (s *MongoUserStore) FindByUsername(ctx context.Context, username string) ([]models.User, error) {
	return s.find(ctx, bson.M{"username": username})
}

func (s *MongoUserStore) GetManyByIDs(ctx context.Context, uids []string) ([]models.User, error) {
	if len(uids) == 0 {
		return []models.User{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": uids}})
}

func (s *MongoUserStore) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to query users", http.StatusInternalServerError)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, errors.Wrap(err, "DB_ERROR", "Failed to decode user", http.StatusInternalServerError)
		}
		if err := user.Validate(); err != nil {
			return nil, errors.Wrap(err, "DB_ERROR", "Malformed user document", http.StatusInternalServerError)
		}
		users = append(users, user)
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to query users", http.StatusInternalServerError)
	}
	return users, nil
}

// SendRequest adds toID to the sender's outgoing set and fromID to the
// recipient's incoming set in one transaction. $addToSet keeps duplicate
// sends idempotent at the document level.
func (s *MongoUserStore) SendRequest(ctx context.Context, fromID, toID string) error {
	return s.inTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := s.updateOne(sc, bson.M{"_id": fromID}, bson.M{
			"$addToSet": bson.M{"friend_requests.outgoing": toID},
		}); err != nil {
			return err
		}
		return s.updateOne(sc, bson.M{"_id": toID}, bson.M{
			"$addToSet": bson.M{"friend_requests.incoming": fromID},
		})
	})
}

// AcceptRequest moves requesterID from the user's incoming set into both
// friends sets and clears the requester's outgoing entry. The first update's
// filter requires the pending entry to exist, so accepting a request that was
// never sent (or already handled) aborts the transaction.
func (s *MongoUserStore) AcceptRequest(ctx context.Context, userID, requesterID string) error {
	return s.inTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := s.collection.UpdateOne(sc, bson.M{
			"_id":                      userID,
			"friend_requests.incoming": requesterID,
		}, bson.M{
			"$addToSet": bson.M{"friends": requesterID},
			"$pull":     bson.M{"friend_requests.incoming": requesterID},
		})
		if err != nil {
			return errors.Wrap(err, "DB_ERROR", "Failed to accept friend request", http.StatusInternalServerError)
		}
		if res.MatchedCount == 0 {
			return errors.ErrNoPendingRequest
		}
		return s.updateOne(sc, bson.M{"_id": requesterID}, bson.M{
			"$addToSet": bson.M{"friends": userID},
			"$pull":     bson.M{"friend_requests.outgoing": userID},
		})
	})
}

// RejectRequest clears the pending entries on both sides. Rejecting a
// request that is not pending is a no-op.
func (s *MongoUserStore) RejectRequest(ctx context.Context, userID, requesterID string) error {
	return s.inTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := s.updateOne(sc, bson.M{"_id": userID}, bson.M{
			"$pull": bson.M{"friend_requests.incoming": requesterID},
		}); err != nil {
			return err
		}
		return s.updateOne(sc, bson.M{"_id": requesterID}, bson.M{
			"$pull": bson.M{"friend_requests.outgoing": userID},
		})
	})
}

// Unfriend removes each party from the other's friends set.
func (s *MongoUserStore) Unfriend(ctx context.Context, userID, targetID string) error {
	return s.inTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := s.updateOne(sc, bson.M{"_id": userID}, bson.M{
			"$pull": bson.M{"friends": targetID},
		}); err != nil {
			return err
		}
		return s.updateOne(sc, bson.M{"_id": targetID}, bson.M{
			"$pull": bson.M{"friends": userID},
		})
	})
}

func (s *MongoUserStore) SetLastLocation(ctx context.Context, uid string, c models.Coordinates) error {
	return s.updateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{"last_location": c}})
}

func (s *MongoUserStore) updateOne(ctx context.Context, filter, update bson.M) error {
	_, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "Failed to update user", http.StatusInternalServerError)
	}
	return nil
}

func (s *MongoUserStore) inTransaction(ctx context.Context, fn func(mongo.SessionContext) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "Failed to start store transaction", http.StatusInternalServerError)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

type MongoShareStore struct {
	collection *mongo.Collection
}

func NewMongoShareStore(client *mongo.Client, db string) *MongoShareStore {
	return &MongoShareStore{collection: client.Database(db).Collection(SharesCollection)}
}

func (s *MongoShareStore) Insert(ctx context.Context, share *models.LocationShare) error {
	share.Timestamp = time.Now().UTC()
	doc := bson.M{
		"from":        share.From,
		"to":          share.To,
		"coordinates": share.Coordinates,
		"timestamp":   share.Timestamp,
	}
	res, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "Failed to share location", http.StatusInternalServerError)
	}
	share.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *MongoShareStore) ListForRecipient(ctx context.Context, uid string) ([]models.LocationShare, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"to": uid})
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to query shares", http.StatusInternalServerError)
	}
	defer cursor.Close(ctx)

	shares := []models.LocationShare{}
	for cursor.Next(ctx) {
		var doc struct {
			ID          primitive.ObjectID `bson:"_id"`
			From        string             `bson:"from"`
			To          string             `bson:"to"`
			Coordinates models.Coordinates `bson:"coordinates"`
			Timestamp   time.Time          `bson:"timestamp"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "DB_ERROR", "Failed to decode share", http.StatusInternalServerError)
		}
		share := models.LocationShare{
			ID:          doc.ID.Hex(),
			From:        doc.From,
			To:          doc.To,
			Coordinates: doc.Coordinates,
			Timestamp:   doc.Timestamp,
		}
		if err := share.Validate(); err != nil {
			return nil, errors.Wrap(err, "DB_ERROR", "Malformed share document", http.StatusInternalServerError)
		}
		shares = append(shares, share)
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "Failed to query shares", http.StatusInternalServerError)
	}
	return shares, nil
}

func (s *MongoShareStore) Delete(ctx context.Context, shareID, recipientID string) error {
	oid, err := primitive.ObjectIDFromHex(shareID)
	if err != nil {
		return errors.ErrInvalidInput
	}
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid, "to": recipientID})
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "Failed to delete share", http.StatusInternalServerError)
	}
	if res.DeletedCount == 0 {
		return errors.ErrNotFound
	}
	return nil
}
