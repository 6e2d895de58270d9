package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/melodia/music-catalog-api/internal/core/domain"
	"github.com/melodia/music-catalog-api/internal/core/ports"
)

const artistCollection = "artists"

type ArtistRepository struct {
	coll *mongo.Collection
}

func NewArtistRepository(db *mongo.Database) *ArtistRepository {
	return &ArtistRepository{coll: db.Collection(artistCollection)}
}

type artistDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Image       assetDoc           `bson:"image,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d artistDoc) toDomain() domain.Artist {
	return domain.Artist{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Image:       d.Image.toDomain(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *ArtistRepository) Create(ctx context.Context, artist *domain.Artist) (*domain.Artist, error) {
	doc := artistDoc{
		Name:        artist.Name,
		Description: artist.Description,
		Image:       toAssetDoc(artist.Image),
		CreatedAt:   artist.CreatedAt,
		UpdatedAt:   artist.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert artist: %w", err)
	}

	created := *artist
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ArtistRepository) FindByID(ctx context.Context, id string) (*domain.Artist, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrArtistNotFound
	}

	var doc artistDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArtistNotFound
		}
		return nil, fmt.Errorf("find artist: %w", err)
	}
	artist := doc.toDomain()
	return &artist, nil
}

func (r *ArtistRepository) Exists(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("check artist: %w", err)
	}
	return n > 0, nil
}

// List returns one page of artists sorted by name, optionally filtered by a
// case-insensitive name match.
func (r *ArtistRepository) List(ctx context.Context, in ports.ListArtistsInput) ([]domain.Artist, int64, error) {
	filter := bson.M{}
	if in.Name != "" {
		filter["name"] = bson.M{"$regex": in.Name, "$options": "i"}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count artists: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip((in.Page - 1) * in.Limit).
		SetLimit(in.Limit)

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list artists: %w", err)
	}
	defer cur.Close(ctx)

	var artists []domain.Artist
	for cur.Next(ctx) {
		var doc artistDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode artist: %w", err)
		}
		artists = append(artists, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list artists: %w", err)
	}
	return artists, total, nil
}

func (r *ArtistRepository) Update(ctx context.Context, artist *domain.Artist) error {
	oid, err := primitive.ObjectIDFromHex(artist.ID)
	if err != nil {
		return domain.ErrArtistNotFound
	}

	update := bson.M{"$set": bson.M{
		"name":        artist.Name,
		"description": artist.Description,
		"image":       toAssetDoc(artist.Image),
		"updated_at":  artist.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update artist: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrArtistNotFound
	}
	return nil
}

func (r *ArtistRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrArtistNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete artist: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrArtistNotFound
	}
	return nil
}
