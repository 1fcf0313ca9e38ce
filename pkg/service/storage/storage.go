package storage

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
	"github.com/secmon-lab/eoms/pkg/utils/safe"
)

// Service writes exported artifacts to object storage
type Service interface {
	// Put writes data to the object and returns its gs:// URL
	Put(ctx context.Context, object, contentType string, data []byte) (string, error)
	Close() error
}

type client struct {
	gcs    *storage.Client
	bucket string
	prefix string
}

// Option is a functional option for client configuration
type Option func(*client)

// WithPrefix places every object under prefix
func WithPrefix(prefix string) Option {
	return func(c *client) {
		c.prefix = strings.Trim(prefix, "/")
	}
}

// New creates a Cloud Storage backed Service for bucket
func New(ctx context.Context, bucket string, opts ...Option) (Service, error) {
	if bucket == "" {
		return nil, goerr.New("bucket is required")
	}

	gcs, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	c := &client{gcs: gcs, bucket: bucket}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *client) objectName(object string) string {
	if c.prefix == "" {
		return object
	}
	return c.prefix + "/" + object
}

func (c *client) Put(ctx context.Context, object, contentType string, data []byte) (string, error) {
	name := c.objectName(object)
	w := c.gcs.Bucket(c.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		safe.Close(ctx, w)
		return "", goerr.Wrap(err, "failed to write object", goerr.V("bucket", c.bucket), goerr.V("object", name))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize object", goerr.V("bucket", c.bucket), goerr.V("object", name))
	}

	url := fmt.Sprintf("gs://%s/%s", c.bucket, name)
	logging.From(ctx).Info("object exported", "url", url, "size", len(data))
	return url, nil
}

func (c *client) Close() error {
	return c.gcs.Close()
}
