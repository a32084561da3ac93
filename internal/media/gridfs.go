package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"yatube/internal/config"
	"yatube/internal/models"
)

// GridFS keeps images in a MongoDB GridFS bucket. References are the hex
// ObjectIDs of the stored files.
type GridFS struct {
	bucket *gridfs.Bucket
}

// ConnectMongo opens a client for the configured URI and checks it answers.
func ConnectMongo(ctx context.Context, cfg config.Mongo) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func NewGridFS(db *mongo.Database) (*GridFS, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("posts"))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return &GridFS{bucket: bucket}, nil
}

func (g *GridFS) Put(_ context.Context, filename, contentType string, r io.Reader) (string, error) {
	fileID := primitive.NewObjectID()
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	uploadStream, err := g.bucket.OpenUploadStreamWithID(fileID, filename, opts)
	if err != nil {
		return "", fmt.Errorf("open upload stream: %w", err)
	}
	if _, err := io.Copy(uploadStream, r); err != nil {
		uploadStream.Abort()
		return "", fmt.Errorf("upload image: %w", err)
	}
	if err := uploadStream.Close(); err != nil {
		return "", fmt.Errorf("finish upload: %w", err)
	}
	return fileID.Hex(), nil
}

func (g *GridFS) Open(_ context.Context, ref string) (io.ReadCloser, string, error) {
	fileID, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return nil, "", fmt.Errorf("image %s: %w", ref, models.ErrNotFound)
	}
	stream, err := g.bucket.OpenDownloadStream(fileID)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, "", fmt.Errorf("image %s: %w", ref, models.ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("open image %s: %w", ref, err)
	}

	contentType := "application/octet-stream"
	if file := stream.GetFile(); file != nil && file.Metadata != nil {
		if v, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok {
			contentType = v
		}
	}
	return stream, contentType, nil
}

func (g *GridFS) Delete(_ context.Context, ref string) error {
	fileID, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return nil
	}
	if err := g.bucket.Delete(fileID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return fmt.Errorf("delete image %s: %w", ref, err)
	}
	return nil
}
