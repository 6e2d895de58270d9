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

const albumCollection = "albums"

type AlbumRepository struct {
	coll *mongo.Collection
}

func NewAlbumRepository(db *mongo.Database) *AlbumRepository {
	return &AlbumRepository{coll: db.Collection(albumCollection)}
}

type albumDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Title      string             `bson:"title"`
	Year       int                `bson:"year"`
	ArtistID   primitive.ObjectID `bson:"artist_id"`
	CoverImage assetDoc           `bson:"cover_image,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (d albumDoc) toDomain() domain.Album {
	return domain.Album{
		ID:         d.ID.Hex(),
		Title:      d.Title,
		Year:       d.Year,
		ArtistID:   d.ArtistID.Hex(),
		CoverImage: d.CoverImage.toDomain(),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (r *AlbumRepository) Create(ctx context.Context, album *domain.Album) (*domain.Album, error) {
	artistOID, err := primitive.ObjectIDFromHex(album.ArtistID)
	if err != nil {
		return nil, domain.ErrArtistNotFound
	}

	doc := albumDoc{
		Title:      album.Title,
		Year:       album.Year,
		ArtistID:   artistOID,
		CoverImage: toAssetDoc(album.CoverImage),
		CreatedAt:  album.CreatedAt,
		UpdatedAt:  album.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert album: %w", err)
	}

	created := *album
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AlbumRepository) FindByID(ctx context.Context, id string) (*domain.Album, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAlbumNotFound
	}

	var doc albumDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAlbumNotFound
		}
		return nil, fmt.Errorf("find album: %w", err)
	}
	album := doc.toDomain()
	return &album, nil
}

func (r *AlbumRepository) FindByArtist(ctx context.Context, artistID string) ([]domain.Album, error) {
	oid, err := primitive.ObjectIDFromHex(artistID)
	if err != nil {
		return nil, domain.ErrArtistNotFound
	}

	opts := options.Find().SetSort(bson.D{{Key: "year", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"artist_id": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list albums by artist: %w", err)
	}
	defer cur.Close(ctx)

	return decodeAlbums(ctx, cur)
}

// Search returns one page of albums sorted by title. Zero-valued filters
// are ignored.
func (r *AlbumRepository) Search(ctx context.Context, in ports.SearchAlbumsInput) ([]domain.Album, int64, error) {
	filter := bson.M{}
	if in.ArtistID != "" {
		oid, err := primitive.ObjectIDFromHex(in.ArtistID)
		if err != nil {
			return nil, 0, domain.ErrArtistNotFound
		}
		filter["artist_id"] = oid
	}
	if in.Title != "" {
		filter["title"] = bson.M{"$regex": in.Title, "$options": "i"}
	}
	if in.Year != 0 {
		filter["year"] = in.Year
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count albums: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "title", Value: 1}}).
		SetSkip((in.Page - 1) * in.Limit).
		SetLimit(in.Limit)

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("search albums: %w", err)
	}
	defer cur.Close(ctx)

	albums, err := decodeAlbums(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return albums, total, nil
}

func (r *AlbumRepository) Update(ctx context.Context, album *domain.Album) error {
	oid, err := primitive.ObjectIDFromHex(album.ID)
	if err != nil {
		return domain.ErrAlbumNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":       album.Title,
		"year":        album.Year,
		"cover_image": toAssetDoc(album.CoverImage),
		"updated_at":  album.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update album: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAlbumNotFound
	}
	return nil
}

func (r *AlbumRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAlbumNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAlbumNotFound
	}
	return nil
}

func (r *AlbumRepository) DeleteByArtist(ctx context.Context, artistID string) error {
	oid, err := primitive.ObjectIDFromHex(artistID)
	if err != nil {
		return domain.ErrArtistNotFound
	}
	if _, err := r.coll.DeleteMany(ctx, bson.M{"artist_id": oid}); err != nil {
		return fmt.Errorf("delete albums by artist: %w", err)
	}
	return nil
}

func decodeAlbums(ctx context.Context, cur *mongo.Cursor) ([]domain.Album, error) {
	var albums []domain.Album
	for cur.Next(ctx) {
		var doc albumDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode album: %w", err)
		}
		albums = append(albums, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return albums, nil
}
