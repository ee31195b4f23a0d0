package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/notewell/notewell/internal/models"
)

// AuditRepo appends audit events to an append-only collection.
type AuditRepo interface {
	Insert(ctx context.Context, ev *models.AuditEvent) error
	ListRecent(ctx context.Context, limit int64) ([]models.AuditEvent, error)
}

type auditRepo struct {
	col *mongo.Collection
}

func NewAuditRepo(db *mongo.Database, collection string) AuditRepo {
	if collection == "" {
		collection = "audit_events"
	}
	return &auditRepo{col: db.Collection(collection)}
}

func (r *auditRepo) Insert(ctx context.Context, ev *models.AuditEvent) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, ev)
	return err
}

func (r *auditRepo) ListRecent(ctx context.Context, limit int64) ([]models.AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.AuditEvent
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
