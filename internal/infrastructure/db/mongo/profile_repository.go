package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/CodeOrigin25/Mandi-Link/internal/core/domain"
)

const profileCollection = "profiles"

// MongoProfileRepository stores one profile document per identity id. The
// role field is written once at creation and never updated here.
type MongoProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *MongoProfileRepository {
	return &MongoProfileRepository{coll: db.Collection(profileCollection)}
}

type profileDoc struct {
	ID           string `bson:"_id"`
	Username     string `bson:"username"`
	Email        string `bson:"email"`
	Role         string `bson:"role"`
	OnlineStatus string `bson:"online_status"`
	CreatedAt    int64  `bson:"created_at"`
}

func (r *MongoProfileRepository) CreateProfile(ctx context.Context, rec domain.ProfileRecord) error {
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	doc := profileDoc{
		ID:           rec.IdentityID,
		Username:     rec.Username,
		Email:        rec.Email,
		Role:         string(rec.Role),
		OnlineStatus: rec.OnlineStatus,
		CreatedAt:    created.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: insert profile: %v", domain.ErrWriteFailed, err)
	}
	return nil
}

func (r *MongoProfileRepository) GetProfile(ctx context.Context, identityID string) (*domain.ProfileRecord, error) {
	var doc profileDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": identityID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	return &domain.ProfileRecord{
		IdentityID:   doc.ID,
		Username:     doc.Username,
		Email:        doc.Email,
		Role:         domain.Role(doc.Role),
		OnlineStatus: doc.OnlineStatus,
		CreatedAt:    unixToTime(doc.CreatedAt),
	}, nil
}

func (r *MongoProfileRepository) SetOnlineStatus(ctx context.Context, identityID, status string) error {
	update := bson.M{"$set": bson.M{"online_status": status}}
	if _, err := r.coll.UpdateByID(ctx, identityID, update); err != nil {
		return fmt.Errorf("%w: set online status: %v", domain.ErrWriteFailed, err)
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
