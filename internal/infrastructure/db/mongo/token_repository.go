package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
)

// TokenRepository persists single-use verification and password-reset tokens.
// Expired documents are reaped by the TTL index on expires_at.
type TokenRepository struct {
	coll *mongo.Collection
}

func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{coll: db.Collection(collTokens)}
}

type tokenDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Token     string    `bson:"token"`
	Kind      string    `bson:"kind"`
	Used      bool      `bson:"used"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

func (r *TokenRepository) Create(ctx context.Context, token *domain.AccountToken) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if token.ID == "" {
		token.ID = newID()
	}
	doc := tokenDoc{
		ID:        token.ID,
		UserID:    token.UserID,
		Token:     token.Token,
		Kind:      token.Kind,
		Used:      token.Used,
		CreatedAt: token.CreatedAt,
		ExpiresAt: token.ExpiresAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (r *TokenRepository) FindUnused(ctx context.Context, token, kind string) (*domain.AccountToken, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc tokenDoc
	err := r.coll.FindOne(ctx, bson.M{"token": token, "kind": kind, "used": false}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	return &domain.AccountToken{
		ID:        doc.ID,
		UserID:    doc.UserID,
		Token:     doc.Token,
		Kind:      doc.Kind,
		Used:      doc.Used,
		CreatedAt: doc.CreatedAt,
		ExpiresAt: doc.ExpiresAt,
	}, nil
}

func (r *TokenRepository) MarkUsed(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"used": true}})
	if err != nil {
		return fmt.Errorf("mark token used: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTokenInvalid
	}
	return nil
}
