package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
)

type CommerceRepository struct {
	db           *mongo.Database
	purchases    *mongo.Collection
	entitlements *mongo.Collection
	downloads    *mongo.Collection
}

func NewCommerceRepository(db *mongo.Database) *CommerceRepository {
	return &CommerceRepository{
		db:           db,
		purchases:    db.Collection(collPurchases),
		entitlements: db.Collection(collEntitlements),
		downloads:    db.Collection(collDownloads),
	}
}

// CreatePurchase commits the receipt, its entitlements, and the per-game
// sales counters in one transaction. The unique index on (user_id, game_id)
// aborts the whole transaction when any entitlement already exists, so a
// concurrent double-checkout can never partially commit.
func (r *CommerceRepository) CreatePurchase(ctx context.Context, p *domain.Purchase, ents []*domain.Entitlement) (*domain.Purchase, error) {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	clone := *p
	clone.ID = newID()

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.purchases.InsertOne(sc, &clone); err != nil {
			return nil, fmt.Errorf("insert purchase: %w", err)
		}

		docs := make([]interface{}, 0, len(ents))
		for _, e := range ents {
			ec := *e
			ec.ID = newID()
			ec.PurchaseID = clone.ID
			docs = append(docs, &ec)
		}
		if _, err := r.entitlements.InsertMany(sc, docs); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrAlreadyOwned
			}
			return nil, fmt.Errorf("insert entitlements: %w", err)
		}

		gameIDs := make([]string, 0, len(ents))
		for _, e := range ents {
			gameIDs = append(gameIDs, e.GameID)
		}
		if _, err := r.db.Collection(collGames).UpdateMany(sc,
			bson.M{"_id": bson.M{"$in": gameIDs}},
			bson.M{"$inc": bson.M{"total_sales": 1}},
		); err != nil {
			return nil, fmt.Errorf("bump sales counters: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyOwned) {
			return nil, domain.ErrAlreadyOwned
		}
		return nil, err
	}
	return &clone, nil
}

// CreateEntitlement inserts one free-claim entitlement. A uniqueness conflict
// returns the existing document instead of an error, which makes claims
// idempotent.
func (r *CommerceRepository) CreateEntitlement(ctx context.Context, e *domain.Entitlement) (*domain.Entitlement, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	clone := *e
	clone.ID = newID()

	if _, err := r.entitlements.InsertOne(ctx, &clone); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			existing, ferr := r.FindEntitlement(ctx, e.UserID, e.GameID)
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("insert entitlement: %w", err)
	}
	return &clone, true, nil
}

func (r *CommerceRepository) FindEntitlement(ctx context.Context, userID, gameID string) (*domain.Entitlement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ent domain.Entitlement
	err := r.entitlements.FindOne(ctx, bson.M{"user_id": userID, "game_id": gameID}).Decode(&ent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotEntitled
		}
		return nil, fmt.Errorf("find entitlement: %w", err)
	}
	return &ent, nil
}

func (r *CommerceRepository) ListEntitlements(ctx context.Context, userID string) ([]*domain.Entitlement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.entitlements.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list entitlements: %w", err)
	}
	defer cur.Close(ctx)

	var ents []*domain.Entitlement
	if err := cur.All(ctx, &ents); err != nil {
		return nil, fmt.Errorf("decode entitlements: %w", err)
	}
	return ents, nil
}

// OwnedGameIDs returns the subset of gameIDs the user already holds
// entitlements for.
func (r *CommerceRepository) OwnedGameIDs(ctx context.Context, userID string, gameIDs []string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.entitlements.Find(ctx, bson.M{
		"user_id": userID,
		"game_id": bson.M{"$in": gameIDs},
	})
	if err != nil {
		return nil, fmt.Errorf("query owned games: %w", err)
	}
	defer cur.Close(ctx)

	var ents []*domain.Entitlement
	if err := cur.All(ctx, &ents); err != nil {
		return nil, fmt.Errorf("decode owned games: %w", err)
	}

	owned := make([]string, 0, len(ents))
	for _, e := range ents {
		owned = append(owned, e.GameID)
	}
	return owned, nil
}

func (r *CommerceRepository) ListPurchases(ctx context.Context, userID string) ([]*domain.Purchase, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.purchases.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer cur.Close(ctx)

	var purchases []*domain.Purchase
	if err := cur.All(ctx, &purchases); err != nil {
		return nil, fmt.Errorf("decode purchases: %w", err)
	}
	return purchases, nil
}

// RecordDownload logs the download and bumps the listing's counter. The two
// writes are deliberately not transactional: the log is best-effort telemetry.
func (r *CommerceRepository) RecordDownload(ctx context.Context, rec *domain.DownloadRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	clone := *rec
	clone.ID = newID()
	if _, err := r.downloads.InsertOne(ctx, &clone); err != nil {
		return fmt.Errorf("insert download record: %w", err)
	}

	_, err := r.db.Collection(collGames).UpdateOne(ctx,
		bson.M{"_id": rec.GameID},
		bson.M{"$inc": bson.M{"total_downloads": 1}},
	)
	if err != nil {
		return fmt.Errorf("bump download counter: %w", err)
	}
	return nil
}
