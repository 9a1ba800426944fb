package firebase

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
)

// Store uploads QR images to a Firebase Storage bucket and hands back
// their public download URLs.
type Store struct {
	app    *firebase.App
	bucket string
}

func NewStore(app *firebase.App, bucket string) *Store {
	return &Store{app: app, bucket: bucket}
}

func (s *Store) Upload(ctx context.Context, name string, data []byte) (string, error) {
	object, err := s.object(ctx, name)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}

	w := object.NewWriter(ctx)
	w.ContentType = "image/png"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("upload: error writing object: %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload: error closing object writer: %s: %w", name, err)
	}

	if err := object.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return "", fmt.Errorf("upload: error setting public read on object: %s: %w", name, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, name), nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	object, err := s.object(ctx, name)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if err := object.Delete(ctx); err != nil {
		return fmt.Errorf("delete: error deleting object: %s: %w", name, err)
	}

	return nil
}

func (s *Store) object(ctx context.Context, name string) (*gcs.ObjectHandle, error) {
	client, err := s.app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("object: error getting storage client: %w", err)
	}

	bucket, err := client.Bucket(s.bucket)
	if err != nil {
		return nil, fmt.Errorf("object: error getting bucket: %s: %w", s.bucket, err)
	}

	return bucket.Object(name), nil
}
