package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainshorts "shortify/internal/domain/shorts"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type ShortRepository struct {
	col *mongo.Collection
}

func NewShortRepository(db *mongo.Database) *ShortRepository {
	col := db.Collection("agg_short")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &ShortRepository{col: col}
}

func (r *ShortRepository) ByID(ctx context.Context, id domainshorts.ShortID) (*domainshorts.Short, error) {
	var doc shortDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainshorts.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ShortRepository) List(ctx context.Context) ([]*domainshorts.Short, error) {
	return r.find(ctx, bson.M{})
}

func (r *ShortRepository) ListByAuthor(ctx context.Context, authorID string) ([]*domainshorts.Short, error) {
	return r.find(ctx, bson.M{"author_id": authorID})
}

func (r *ShortRepository) ListByIDs(ctx context.Context, ids []domainshorts.ShortID) ([]*domainshorts.Short, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, string(id))
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": raw}})
}

func (r *ShortRepository) find(ctx context.Context, filter bson.M) ([]*domainshorts.Short, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainshorts.Short
	for cursor.Next(ctx) {
		var doc shortDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *ShortRepository) Save(ctx context.Context, short *domainshorts.Short) error {
	doc := newShortDocument(short)
	filter := bson.M{"_id": doc.ID, "version": short.Version}
	doc.Version = short.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	short.Version = doc.Version
	return nil
}

func (r *ShortRepository) Delete(ctx context.Context, id domainshorts.ShortID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainshorts.ErrNotFound
	}
	return nil
}

type shortDocument struct {
	ID        string `bson:"_id"`
	AuthorID  string `bson:"author_id"`
	Caption   string `bson:"caption"`
	MediaURL  string `bson:"media_url"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
	Version   int64  `bson:"version"`
}

func newShortDocument(short *domainshorts.Short) shortDocument {
	return shortDocument{
		ID:        string(short.ID),
		AuthorID:  short.AuthorID,
		Caption:   short.Caption,
		MediaURL:  short.MediaURL,
		CreatedAt: short.CreatedAt.UnixMilli(),
		UpdatedAt: short.UpdatedAt.UnixMilli(),
		Version:   short.Version,
	}
}

func (d shortDocument) toAggregate() *domainshorts.Short {
	return &domainshorts.Short{
		ID:        domainshorts.ShortID(d.ID),
		AuthorID:  d.AuthorID,
		Caption:   d.Caption,
		MediaURL:  d.MediaURL,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
