package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSStorage implements the Storage interface for Google Cloud Storage
type GCSStorage struct {
	client       *storage.Client
	bucket       string
	objectPrefix string
}

// NewGCSStorage creates a new GCSStorage instance
func NewGCSStorage(ctx context.Context, bucketName, objectPrefix, credentialsFile string) (*GCSStorage, error) {
	var client *storage.Client
	var err error

	// Create a client
	if credentialsFile != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	} else {
		// Use application default credentials
		client, err = storage.NewClient(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStorage{
		client:       client,
		bucket:       bucketName,
		objectPrefix: strings.Trim(objectPrefix, "/"),
	}, nil
}

// objectName prepends the configured prefix to name
func (s *GCSStorage) objectName(name string) string {
	name = strings.TrimPrefix(name, "/")
	if s.objectPrefix == "" {
		return name
	}
	return s.objectPrefix + "/" + name
}

// relativeName strips the configured prefix from an object name
func (s *GCSStorage) relativeName(objectName string) string {
	if s.objectPrefix == "" {
		return objectName
	}
	return strings.TrimPrefix(objectName, s.objectPrefix+"/")
}

// Writer returns a writer for an object; the upload completes on Close
func (s *GCSStorage) Writer(ctx context.Context, name string) (io.WriteCloser, error) {
	w := s.client.Bucket(s.bucket).Object(s.objectName(name)).NewWriter(ctx)
	if strings.HasSuffix(name, ".json") {
		w.ContentType = "application/json"
	} else if strings.HasSuffix(name, ".csv") {
		w.ContentType = "text/csv"
	}
	return w, nil
}

// Reader returns a reader for an object
func (s *GCSStorage) Reader(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.client.Bucket(s.bucket).Object(s.objectName(name)).NewReader(ctx)
}

// Exists checks if an object exists
func (s *GCSStorage) Exists(ctx context.Context, name string) bool {
	_, err := s.client.Bucket(s.bucket).Object(s.objectName(name)).Attrs(ctx)
	return err == nil
}

// List lists objects whose name starts with prefix
func (s *GCSStorage) List(ctx context.Context, prefix string) ([]string, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{
		Prefix: s.objectName(prefix),
	})

	var results []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error listing objects: %w", err)
		}

		// Skip directories (objects ending with /)
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}

		results = append(results, s.relativeName(attrs.Name))
	}

	return results, nil
}

// Location returns the gs:// URL of name
func (s *GCSStorage) Location(name string) string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, s.objectName(name))
}

// Close closes the GCS client
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
