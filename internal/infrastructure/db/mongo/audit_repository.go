package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pyxolotl/marketplace-api/internal/core/domain"
)

// AuditRepository appends to the immutable admin audit trail.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(collAudit)}
}

func (r *AuditRepository) Insert(ctx context.Context, rec *domain.AuditRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	clone := *rec
	clone.ID = newID()
	if _, err := r.coll.InsertOne(ctx, &clone); err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}
