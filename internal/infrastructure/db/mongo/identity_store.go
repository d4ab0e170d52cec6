package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/CodeOrigin25/Mandi-Link/internal/core/domain"
)

const identityCollection = "identities"

// Provider credential policy: a plausible email and a minimum password
// length, checked before any write.
const minPasswordLen = 6

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// MongoIdentityStore backs the identity provider boundary with a Mongo
// collection of email+bcrypt credential documents.
type MongoIdentityStore struct {
	coll *mongo.Collection
}

func NewIdentityStore(db *mongo.Database) *MongoIdentityStore {
	return &MongoIdentityStore{coll: db.Collection(identityCollection)}
}

type identityDoc struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
	CreatedAt    int64  `bson:"created_at"`
	LastSeen     int64  `bson:"last_seen,omitempty"`
}

// EnsureIndexes creates the unique email index that makes duplicate
// accounts a first-class write error. Call once at startup.
func (s *MongoIdentityStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("identity indexes: %w", err)
	}
	return nil
}

func (s *MongoIdentityStore) CreateAccount(ctx context.Context, email, password string) (string, error) {
	if !emailRx.MatchString(email) || len(password) < minPasswordLen {
		return "", domain.ErrCredentialsInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	doc := identityDoc{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC().Unix(),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrAccountExists
		}
		return "", fmt.Errorf("insert identity: %w", err)
	}
	return doc.ID, nil
}

func (s *MongoIdentityStore) Authenticate(ctx context.Context, email, password string) (string, error) {
	var doc identityDoc
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", domain.ErrAccountNotFound
		}
		return "", fmt.Errorf("find identity: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrAuthFailed
	}
	return doc.ID, nil
}

// EndSession stamps last_seen on the identity document. Failures map to
// domain.ErrSessionEndFailed so callers can treat them as non-fatal.
func (s *MongoIdentityStore) EndSession(ctx context.Context, identityID string) error {
	update := bson.M{"$set": bson.M{"last_seen": time.Now().UTC().Unix()}}
	if _, err := s.coll.UpdateByID(ctx, identityID, update); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSessionEndFailed, err)
	}
	return nil
}
