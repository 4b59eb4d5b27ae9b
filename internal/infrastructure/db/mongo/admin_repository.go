package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
	"github.com/pyxolotl/marketplace-api/internal/core/ports"
)

// AdminRepository implements the cross-collection queries and cascading
// deletes behind the admin console.
type AdminRepository struct {
	db    *mongo.Database
	games *GameRepository
	users *AuthRepository
}

func NewAdminRepository(db *mongo.Database) *AdminRepository {
	return &AdminRepository{
		db:    db,
		games: NewGameRepository(db),
		users: NewAuthRepository(db),
	}
}

func (r *AdminRepository) Stats(ctx context.Context) (*ports.AdminStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stats := &ports.AdminStats{}
	counts := []struct {
		coll   string
		filter bson.M
		dest   *int64
	}{
		{collUsers, bson.M{}, &stats.TotalUsers},
		{collUsers, bson.M{"verified": true}, &stats.VerifiedUsers},
		{collGames, bson.M{}, &stats.TotalGames},
		{collGames, bson.M{"status": string(domain.StatusApproved)}, &stats.ApprovedGames},
		{collPurchases, bson.M{}, &stats.TotalPurchases},
		{collDownloads, bson.M{}, &stats.TotalDownloads},
	}
	for _, c := range counts {
		n, err := r.db.Collection(c.coll).CountDocuments(ctx, c.filter)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", c.coll, err)
		}
		*c.dest = n
	}
	return stats, nil
}

func (r *AdminRepository) ListUsers(ctx context.Context, f ports.UserAdminFilter) ([]ports.UserOverview, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Verified != nil {
		filter["verified"] = *f.Verified
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(f.Skip)).
		SetLimit(int64(f.Limit))

	cur, err := r.db.Collection(collUsers).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]ports.UserOverview, 0, len(docs))
	for _, doc := range docs {
		gameCount, err := r.db.Collection(collGames).CountDocuments(ctx, bson.M{"developer_id": doc.ID})
		if err != nil {
			return nil, fmt.Errorf("count user games: %w", err)
		}
		purchaseCount, err := r.db.Collection(collPurchases).CountDocuments(ctx, bson.M{"user_id": doc.ID})
		if err != nil {
			return nil, fmt.Errorf("count user purchases: %w", err)
		}
		out = append(out, ports.UserOverview{
			User:          doc.toDomain(),
			GameCount:     gameCount,
			PurchaseCount: purchaseCount,
		})
	}
	return out, nil
}

func (r *AdminRepository) ListGames(ctx context.Context, f ports.GameAdminFilter) ([]ports.GameOverview, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.DeveloperID != "" {
		filter["developer_id"] = f.DeveloperID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(f.Skip)).
		SetLimit(int64(f.Limit))

	cur, err := r.db.Collection(collGames).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer cur.Close(ctx)

	var games []*domain.Game
	if err := cur.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("decode games: %w", err)
	}

	out := make([]ports.GameOverview, 0, len(games))
	for _, g := range games {
		reviewCount, err := r.db.Collection(collReviews).CountDocuments(ctx, bson.M{"game_id": g.ID})
		if err != nil {
			return nil, fmt.Errorf("count game reviews: %w", err)
		}
		name := ""
		if dev, err := r.users.FindByID(ctx, g.DeveloperID); err == nil {
			name = dev.Name
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		out = append(out, ports.GameOverview{
			Game:          g,
			DeveloperName: name,
			ReviewCount:   reviewCount,
		})
	}
	return out, nil
}

// DeleteUser removes the account and all dependent records in one
// transaction. With deleteGames the user's listings and everything hanging
// off them (reviews, entitlements, downloads) go too.
func (r *AdminRepository) DeleteUser(ctx context.Context, userID string, deleteGames bool) (*ports.PurgeResult, error) {
	if _, err := r.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	session, err := r.db.Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	res := &ports.PurgeResult{}
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if deleteGames {
			games, err := r.deleteGamesOf(sc, userID)
			if err != nil {
				return nil, err
			}
			res.Games = games
			res.Records += games
		}

		byUser := bson.M{"user_id": userID}
		for _, coll := range []string{collEntitlements, collPurchases, collReviews, collDownloads, collTokens} {
			dr, err := r.db.Collection(coll).DeleteMany(sc, byUser)
			if err != nil {
				return nil, fmt.Errorf("purge %s: %w", coll, err)
			}
			res.Records += dr.DeletedCount
		}

		dr, err := r.db.Collection(collUsers).DeleteOne(sc, bson.M{"_id": userID})
		if err != nil {
			return nil, fmt.Errorf("delete user: %w", err)
		}
		res.Users = dr.DeletedCount
		res.Records += dr.DeletedCount
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// DeleteUserGames removes a user's listings and their dependent records,
// keeping the account.
func (r *AdminRepository) DeleteUserGames(ctx context.Context, userID string) (*ports.PurgeResult, error) {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	res := &ports.PurgeResult{}
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		games, err := r.deleteGamesOf(sc, userID)
		if err != nil {
			return nil, err
		}
		res.Games = games
		res.Records = games
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// deleteGamesOf removes every listing of a developer plus the reviews,
// entitlements, and download logs referencing them. Purchase receipts are
// kept: they are immutable financial records.
func (r *AdminRepository) deleteGamesOf(sc mongo.SessionContext, developerID string) (int64, error) {
	cur, err := r.db.Collection(collGames).Find(sc, bson.M{"developer_id": developerID})
	if err != nil {
		return 0, fmt.Errorf("find developer games: %w", err)
	}

	var games []*domain.Game
	if err := cur.All(sc, &games); err != nil {
		return 0, fmt.Errorf("decode developer games: %w", err)
	}
	if len(games) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(games))
	for _, g := range games {
		ids = append(ids, g.ID)
	}
	byGame := bson.M{"game_id": bson.M{"$in": ids}}
	for _, coll := range []string{collReviews, collEntitlements, collDownloads} {
		if _, err := r.db.Collection(coll).DeleteMany(sc, byGame); err != nil {
			return 0, fmt.Errorf("purge %s: %w", coll, err)
		}
	}

	dr, err := r.db.Collection(collGames).DeleteMany(sc, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("delete games: %w", err)
	}
	return dr.DeletedCount, nil
}

// DeleteUnverifiedBefore bulk-deletes unverified accounts created before the
// cutoff, along with their pending tokens.
func (r *AdminRepository) DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (*ports.PurgeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{"verified": false, "created_at": bson.M{"$lt": cutoff}}

	cur, err := r.db.Collection(collUsers).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find unverified users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode unverified users: %w", err)
	}
	if len(docs) == 0 {
		return &ports.PurgeResult{}, nil
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}

	res := &ports.PurgeResult{}
	if dr, err := r.db.Collection(collTokens).DeleteMany(ctx, bson.M{"user_id": bson.M{"$in": ids}}); err == nil {
		res.Records += dr.DeletedCount
	} else {
		return nil, fmt.Errorf("purge tokens: %w", err)
	}

	dr, err := r.db.Collection(collUsers).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("delete unverified users: %w", err)
	}
	res.Users = dr.DeletedCount
	res.Records += dr.DeletedCount
	return res, nil
}
