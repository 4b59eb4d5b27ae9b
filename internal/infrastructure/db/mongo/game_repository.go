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

type GameRepository struct {
	coll *mongo.Collection
}

func NewGameRepository(db *mongo.Database) *GameRepository {
	return &GameRepository{coll: db.Collection(collGames)}
}

// Create inserts a new listing document.
func (r *GameRepository) Create(ctx context.Context, g *domain.Game) (*domain.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	clone := *g
	clone.ID = newID()

	if _, err := r.coll.InsertOne(ctx, &clone); err != nil {
		return nil, fmt.Errorf("insert game: %w", err)
	}
	return &clone, nil
}

func (r *GameRepository) FindByID(ctx context.Context, id string) (*domain.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var g domain.Game
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGameNotFound
		}
		return nil, fmt.Errorf("find game: %w", err)
	}
	return &g, nil
}

// List returns a page of games matching the filter plus the total count.
func (r *GameRepository) List(ctx context.Context, filter ports.CatalogFilter) ([]*domain.Game, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := buildGameQuery(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count games: %w", err)
	}

	// Ratings live in the reviews collection, so ordering by them needs a
	// join instead of a plain indexed sort.
	if ratingSort(filter) {
		games, err := r.listByRating(ctx, query, filter)
		if err != nil {
			return nil, 0, err
		}
		return games, total, nil
	}

	opts := options.Find().
		SetSort(gameSort(filter)).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list games: %w", err)
	}
	defer cur.Close(ctx)

	var games []*domain.Game
	if err := cur.All(ctx, &games); err != nil {
		return nil, 0, fmt.Errorf("decode games: %w", err)
	}
	return games, total, nil
}

func buildGameQuery(f ports.CatalogFilter) bson.M {
	query := bson.M{}
	if f.Status != "" {
		query["status"] = string(f.Status)
	}
	if f.DeveloperID != "" {
		query["developer_id"] = f.DeveloperID
	}
	if f.Genre != "" {
		query["genre"] = f.Genre
	}
	if f.Search != "" {
		rx := bson.M{"$regex": f.Search, "$options": "i"}
		query["$or"] = bson.A{bson.M{"title": rx}, bson.M{"description": rx}}
	}
	if f.FreeOnly {
		query["price"] = float64(0)
	} else if f.PriceMin != nil || f.PriceMax != nil {
		price := bson.M{}
		if f.PriceMin != nil {
			price["$gte"] = *f.PriceMin
		}
		if f.PriceMax != nil {
			price["$lte"] = *f.PriceMax
		}
		query["price"] = price
	}
	return query
}

func gameSort(f ports.CatalogFilter) bson.D {
	switch f.SortBy {
	case "price", "precio":
		return bson.D{{Key: "price", Value: sortDir(f)}}
	default:
		return bson.D{{Key: "created_at", Value: sortDir(f)}}
	}
}

func sortDir(f ports.CatalogFilter) int {
	if f.SortAsc {
		return 1
	}
	return -1
}

func ratingSort(f ports.CatalogFilter) bool {
	return f.SortBy == "rating" || f.SortBy == "calificacion"
}

// ratingPipeline joins reviews into the listing page so it can be ordered by
// mean rating. Unreviewed listings sort as rating 0; ties break newest-first.
func ratingPipeline(query bson.M, f ports.CatalogFilter) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: query}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collReviews,
			"localField":   "_id",
			"foreignField": "game_id",
			"as":           "game_reviews",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"avg_rating": bson.M{"$ifNull": bson.A{bson.M{"$avg": "$game_reviews.rating"}, 0}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "avg_rating", Value: sortDir(f)},
			{Key: "created_at", Value: -1},
		}}},
		{{Key: "$skip", Value: int64((f.Page - 1) * f.Limit)}},
		{{Key: "$limit", Value: int64(f.Limit)}},
		{{Key: "$project", Value: bson.M{"game_reviews": 0, "avg_rating": 0}}},
	}
}

func (r *GameRepository) listByRating(ctx context.Context, query bson.M, f ports.CatalogFilter) ([]*domain.Game, error) {
	cur, err := r.coll.Aggregate(ctx, ratingPipeline(query, f))
	if err != nil {
		return nil, fmt.Errorf("list games by rating: %w", err)
	}
	defer cur.Close(ctx)

	var games []*domain.Game
	if err := cur.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("decode games: %w", err)
	}
	return games, nil
}

// SetStatus transitions a listing out of Pending. The source-state guard sits
// inside the filter so two concurrent reviews cannot both match.
func (r *GameRepository) SetStatus(ctx context.Context, id string, status domain.GameStatus, reviewerID, reason string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"status":         string(status),
		"reviewed_by_id": reviewerID,
		"reviewed_at":    at,
		"updated_at":     at,
	}
	if reason != "" {
		set["rejection_reason"] = reason
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": string(domain.StatusPending)},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, fmt.Errorf("set game status: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *GameRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}
