// Package objstore reads and writes RDF documents held in an S3-compatible
// object store, addressed as s3://bucket/key.
package objstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/roach88/rdfkit/internal/graph"
)

// Scheme is the URL scheme of object locations.
const Scheme = "s3://"

// Config holds object store connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// Location addresses one object.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return Scheme + l.Bucket + "/" + l.Key
}

// IsLocation reports whether raw uses the s3:// scheme.
func IsLocation(raw string) bool {
	return strings.HasPrefix(raw, Scheme)
}

// ParseLocation parses s3://bucket/key.
func ParseLocation(raw string) (Location, error) {
	if !IsLocation(raw) {
		return Location{}, fmt.Errorf("object location %q must start with %s", raw, Scheme)
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(raw, Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return Location{}, fmt.Errorf("object location %q must name a bucket and a key", raw)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// Client wraps a MinIO client.
type Client struct {
	mc        *minio.Client
	endpoint  string
	transport *http.Transport
	logger    *slog.Logger
}

// NewClient creates a client for the store at cfg.Endpoint.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("object store endpoint is not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &Client{mc: mc, endpoint: cfg.Endpoint, transport: transport, logger: logger}, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.transport.CloseIdleConnections()
}

// Open returns the content of the object at loc. The caller closes it.
func (c *Client) Open(ctx context.Context, loc Location) (io.ReadCloser, error) {
	obj, err := c.mc.GetObject(ctx, loc.Bucket, loc.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, c.objectError("get", loc, err)
	}
	// GetObject is lazy; Stat surfaces a missing object before parsing starts.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, c.objectError("get", loc, err)
	}
	c.logger.Debug("object opened", "location", loc.String())
	return obj, nil
}

// Put stores size bytes of r at loc.
func (c *Client) Put(ctx context.Context, loc Location, r io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	info, err := c.mc.PutObject(ctx, loc.Bucket, loc.Key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return c.objectError("put", loc, err)
	}
	c.logger.Debug("object stored", "location", loc.String(), "size", info.Size)
	return nil
}

func (c *Client) objectError(op string, loc Location, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode == 0 && resp.Code == "" {
		return graph.NewError(graph.ErrCodeNetwork, "Unknown or unresponsive host: "+c.endpoint, err)
	}
	return graph.NewError(graph.ErrCodeIO, fmt.Sprintf("%s %s: %s", op, loc, resp.Code), err)
}
