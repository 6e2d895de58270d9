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
)

const songCollection = "songs"

type SongRepository struct {
	coll *mongo.Collection
}

func NewSongRepository(db *mongo.Database) *SongRepository {
	return &SongRepository{coll: db.Collection(songCollection)}
}

type songDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Number    int                `bson:"number"`
	Duration  int                `bson:"duration"`
	AlbumID   primitive.ObjectID `bson:"album_id"`
	File      assetDoc           `bson:"file,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d songDoc) toDomain() domain.Song {
	return domain.Song{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Number:    d.Number,
		Duration:  d.Duration,
		AlbumID:   d.AlbumID.Hex(),
		File:      d.File.toDomain(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *SongRepository) Create(ctx context.Context, song *domain.Song) (*domain.Song, error) {
	albumOID, err := primitive.ObjectIDFromHex(song.AlbumID)
	if err != nil {
		return nil, domain.ErrAlbumNotFound
	}

	doc := songDoc{
		Name:      song.Name,
		Number:    song.Number,
		Duration:  song.Duration,
		AlbumID:   albumOID,
		File:      toAssetDoc(song.File),
		CreatedAt: song.CreatedAt,
		UpdatedAt: song.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert song: %w", err)
	}

	created := *song
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *SongRepository) FindByID(ctx context.Context, id string) (*domain.Song, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSongNotFound
	}

	var doc songDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSongNotFound
		}
		return nil, fmt.Errorf("find song: %w", err)
	}
	song := doc.toDomain()
	return &song, nil
}

func (r *SongRepository) FindByAlbum(ctx context.Context, albumID string) ([]domain.Song, error) {
	oid, err := primitive.ObjectIDFromHex(albumID)
	if err != nil {
		return nil, domain.ErrAlbumNotFound
	}

	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"album_id": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer cur.Close(ctx)

	var songs []domain.Song
	for cur.Next(ctx) {
		var doc songDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode song: %w", err)
		}
		songs = append(songs, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	return songs, nil
}

func (r *SongRepository) Update(ctx context.Context, song *domain.Song) error {
	oid, err := primitive.ObjectIDFromHex(song.ID)
	if err != nil {
		return domain.ErrSongNotFound
	}

	update := bson.M{"$set": bson.M{
		"name":       song.Name,
		"number":     song.Number,
		"duration":   song.Duration,
		"file":       toAssetDoc(song.File),
		"updated_at": song.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update song: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSongNotFound
	}
	return nil
}

func (r *SongRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrSongNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSongNotFound
	}
	return nil
}

func (r *SongRepository) DeleteByAlbum(ctx context.Context, albumID string) error {
	oid, err := primitive.ObjectIDFromHex(albumID)
	if err != nil {
		return domain.ErrAlbumNotFound
	}
	if _, err := r.coll.DeleteMany(ctx, bson.M{"album_id": oid}); err != nil {
		return fmt.Errorf("delete songs by album: %w", err)
	}
	return nil
}
