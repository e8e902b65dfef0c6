package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainshorts "shortify/internal/domain/shorts"
	domaintags "shortify/internal/domain/tags"
)

// TagRepository persists tag entities in one collection and the
// short<->tag links in another, with unique indexes guarding both the
// normalized text and the link pair.
type TagRepository struct {
	tags  *mongo.Collection
	links *mongo.Collection
}

func NewTagRepository(db *mongo.Database) *TagRepository {
	tags := db.Collection("agg_tag")
	_, _ = tags.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "text", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	links := db.Collection("rel_short_tag")
	_, _ = links.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "short_id", Value: 1}, {Key: "tag_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	_, _ = links.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "tag_id", Value: 1}},
	})
	return &TagRepository{tags: tags, links: links}
}

func (r *TagRepository) ByID(ctx context.Context, id domaintags.TagID) (*domaintags.Tag, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *TagRepository) ByText(ctx context.Context, text string) (*domaintags.Tag, error) {
	return r.findOne(ctx, bson.M{"text": domaintags.NormalizeText(text)})
}

func (r *TagRepository) findOne(ctx context.Context, filter bson.M) (*domaintags.Tag, error) {
	var doc tagDocument
	if err := r.tags.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaintags.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *TagRepository) List(ctx context.Context) ([]*domaintags.Tag, error) {
	opts := options.Find().SetSort(bson.D{{Key: "text", Value: 1}})
	cursor, err := r.tags.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domaintags.Tag
	for cursor.Next(ctx) {
		var doc tagDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *TagRepository) ListByShort(ctx context.Context, shortID domainshorts.ShortID) ([]*domaintags.Tag, error) {
	ids, err := r.linkedTagIDs(ctx, shortID)
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "text", Value: 1}})
	cursor, err := r.tags.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domaintags.Tag
	for cursor.Next(ctx) {
		var doc tagDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *TagRepository) ShortIDsByTag(ctx context.Context, id domaintags.TagID) ([]domainshorts.ShortID, error) {
	cursor, err := r.links.Find(ctx, bson.M{"tag_id": string(id)})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []domainshorts.ShortID
	for cursor.Next(ctx) {
		var doc linkDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, domainshorts.ShortID(doc.ShortID))
	}
	return out, cursor.Err()
}

func (r *TagRepository) Save(ctx context.Context, tag *domaintags.Tag) error {
	doc := newTagDocument(tag)
	filter := bson.M{"_id": doc.ID, "version": tag.Version}
	doc.Version = tag.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.tags.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	tag.Version = doc.Version
	return nil
}

func (r *TagRepository) Delete(ctx context.Context, id domaintags.TagID) error {
	res, err := r.tags.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domaintags.ErrNotFound
	}
	_, err = r.links.DeleteMany(ctx, bson.M{"tag_id": string(id)})
	return err
}

func (r *TagRepository) Link(ctx context.Context, shortID domainshorts.ShortID, tagID domaintags.TagID) error {
	doc := linkDocument{ShortID: string(shortID), TagID: string(tagID), CreatedAt: time.Now().UnixMilli()}
	_, err := r.links.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		// link already present, idempotent
		return nil
	}
	return err
}

func (r *TagRepository) Unlink(ctx context.Context, shortID domainshorts.ShortID, tagID domaintags.TagID) error {
	res, err := r.links.DeleteOne(ctx, bson.M{"short_id": string(shortID), "tag_id": string(tagID)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domaintags.ErrNotLinked
	}
	return nil
}

func (r *TagRepository) UnlinkAll(ctx context.Context, shortID domainshorts.ShortID) (int, error) {
	res, err := r.links.DeleteMany(ctx, bson.M{"short_id": string(shortID)})
	if err != nil {
		return 0, err
	}
	return int(res.DeletedCount), nil
}

func (r *TagRepository) Linked(ctx context.Context, shortID domainshorts.ShortID, tagID domaintags.TagID) (bool, error) {
	err := r.links.FindOne(ctx, bson.M{"short_id": string(shortID), "tag_id": string(tagID)}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *TagRepository) linkedTagIDs(ctx context.Context, shortID domainshorts.ShortID) ([]string, error) {
	cursor, err := r.links.Find(ctx, bson.M{"short_id": string(shortID)})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []string
	for cursor.Next(ctx) {
		var doc linkDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.TagID)
	}
	return out, cursor.Err()
}

type tagDocument struct {
	ID        string `bson:"_id"`
	Text      string `bson:"text"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
	Version   int64  `bson:"version"`
}

func newTagDocument(tag *domaintags.Tag) tagDocument {
	return tagDocument{
		ID:        string(tag.ID),
		Text:      tag.Text,
		CreatedAt: tag.CreatedAt.UnixMilli(),
		UpdatedAt: tag.UpdatedAt.UnixMilli(),
		Version:   tag.Version,
	}
}

func (d tagDocument) toAggregate() *domaintags.Tag {
	return &domaintags.Tag{
		ID:        domaintags.TagID(d.ID),
		Text:      d.Text,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

type linkDocument struct {
	ShortID   string `bson:"short_id"`
	TagID     string `bson:"tag_id"`
	CreatedAt int64  `bson:"created_at"`
}
