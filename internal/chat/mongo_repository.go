package chat

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"classroom-signaling/internal/database"
)

// MongoRepository implements Repository on a MongoDB chatrooms collection.
type MongoRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository creates a MongoDB-backed chat repository.
func NewMongoRepository(db *database.MongoDB) *MongoRepository {
	return &MongoRepository{collection: db.Collection("chatrooms")}
}

// FindRoom looks up a chat room document by id.
func (r *MongoRepository) FindRoom(roomID string) (*Room, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var room Room
	err := r.collection.FindOne(ctx, bson.M{"_id": roomID}).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRoomNotFound
		}
		return nil, errors.Wrap(err, "failed to find chat room")
	}
	return &room, nil
}

// FindRooms lists all chat room documents.
func (r *MongoRepository) FindRooms() ([]*Room, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list chat rooms")
	}
	defer cursor.Close(ctx)

	var rooms []*Room
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, errors.Wrap(err, "failed to decode chat rooms")
	}
	return rooms, nil
}

// AppendMessage pushes a message onto the room's message log.
func (r *MongoRepository) AppendMessage(roomID string, msg *Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$push": bson.M{"messages": msg}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": roomID}, update)
	if err != nil {
		return errors.Wrap(err, "failed to save chat message")
	}
	if result.MatchedCount == 0 {
		return ErrRoomNotFound
	}
	return nil
}
