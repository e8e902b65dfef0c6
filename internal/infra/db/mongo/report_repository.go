package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainreports "shortify/internal/domain/reports"
	domainshorts "shortify/internal/domain/shorts"
)

// ReportRepository persists moderation reports. The unique compound index on
// (short_id, user_id) is what turns a concurrent double-submit into
// ErrAlreadyReported for exactly one of the two writers.
type ReportRepository struct {
	col *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	col := db.Collection("agg_report")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "short_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	return &ReportRepository{col: col}
}

func (r *ReportRepository) ByKey(ctx context.Context, shortID domainshorts.ShortID, userID string) (*domainreports.Report, error) {
	var doc reportDocument
	err := r.col.FindOne(ctx, bson.M{"short_id": string(shortID), "user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreports.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReportRepository) List(ctx context.Context) ([]*domainreports.Report, error) {
	return r.find(ctx, bson.M{})
}

func (r *ReportRepository) ListByUser(ctx context.Context, userID string) ([]*domainreports.Report, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *ReportRepository) ListByShort(ctx context.Context, shortID domainshorts.ShortID) ([]*domainreports.Report, error) {
	return r.find(ctx, bson.M{"short_id": string(shortID)})
}

func (r *ReportRepository) find(ctx context.Context, filter bson.M) ([]*domainreports.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainreports.Report
	for cursor.Next(ctx) {
		var doc reportDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *ReportRepository) Create(ctx context.Context, report *domainreports.Report) error {
	doc := newReportDocument(report)
	_, err := r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domainreports.ErrAlreadyReported
	}
	return err
}

func (r *ReportRepository) Delete(ctx context.Context, shortID domainshorts.ShortID, userID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"short_id": string(shortID), "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainreports.ErrNotFound
	}
	return nil
}

func (r *ReportRepository) DeleteByShort(ctx context.Context, shortID domainshorts.ShortID) (int, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"short_id": string(shortID)})
	if err != nil {
		return 0, err
	}
	return int(res.DeletedCount), nil
}

type reportDocument struct {
	ShortID   string `bson:"short_id"`
	UserID    string `bson:"user_id"`
	Reason    string `bson:"reason"`
	CreatedAt int64  `bson:"created_at"`
}

func newReportDocument(report *domainreports.Report) reportDocument {
	return reportDocument{
		ShortID:   string(report.ShortID),
		UserID:    report.UserID,
		Reason:    report.Reason,
		CreatedAt: report.CreatedAt.UnixMilli(),
	}
}

func (d reportDocument) toAggregate() *domainreports.Report {
	return &domainreports.Report{
		ShortID:   domainshorts.ShortID(d.ShortID),
		UserID:    d.UserID,
		Reason:    d.Reason,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}
