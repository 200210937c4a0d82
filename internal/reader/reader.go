package reader

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Fetch opens a batch source by URI. "gs://bucket/object" reads from
// Cloud Storage, anything else is treated as a local file path. The
// caller owns the returned reader.
func Fetch(ctx context.Context, uri string) (io.ReadCloser, error) {
	if bucket, object, ok := SplitGCSURI(uri); ok {
		return fetchObject(ctx, bucket, object)
	}
	f, err := os.Open(uri)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	return f, nil
}

// SplitGCSURI splits "gs://bucket/object" into its parts. ok is false
// for any other URI shape.
func SplitGCSURI(uri string) (bucket, object string, ok bool) {
	rest, found := strings.CutPrefix(uri, "gs://")
	if !found {
		return "", "", false
	}
	bucket, object, found = strings.Cut(rest, "/")
	if !found || bucket == "" || object == "" {
		return "", "", false
	}
	return bucket, object, true
}

func fetchObject(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error) {
	client, err := storage.NewClient(ctx, clientOptions()...)

	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	r, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)

	if err != nil {
		client.Close()
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}

	return &objectReader{Reader: r, client: client}, nil
}

func clientOptions() []option.ClientOption {
	if os.Getenv("BANKFLOW_GCS_ANONYMOUS") != "" {
		return []option.ClientOption{option.WithoutAuthentication()}
	}
	return nil
}

// objectReader ties the storage client's lifetime to the object reader.
type objectReader struct {
	*storage.Reader
	client *storage.Client
}

func (r *objectReader) Close() error {
	err := r.Reader.Close()
	if cerr := r.client.Close(); err == nil {
		err = cerr
	}
	return err
}
