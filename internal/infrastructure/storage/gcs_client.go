package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"campushub/pkg/logger"
)

// Folders under which uploaded images live in the bucket.
const (
	FolderMarketItems = "market-items"
	FolderLostFound   = "lost-found"
	FolderEvents      = "event-posters"
	FolderAvatars     = "avatars"
)

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
	projectID  string
}

func NewCloudStorageClient(ctx context.Context, bucketName, projectID string, credentialsPath string) (*CloudStorageClient, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
		projectID:  projectID,
	}, nil
}

// UploadImage stores an image under the given folder and returns its
// public URL. Only image content types are accepted.
func (c *CloudStorageClient) UploadImage(ctx context.Context, file io.Reader, contentType, folder string) (string, error) {
	var ext string
	switch contentType {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/gif":
		ext = ".gif"
	case "image/webp":
		ext = ".webp"
	default:
		return "", fmt.Errorf("unsupported image type: %s", contentType)
	}

	objectName := fmt.Sprintf("%s/%s-%s%s", folder, uuid.New().String(), time.Now().Format("20060102150405"), ext)

	obj := c.client.Bucket(c.bucketName).Object(objectName)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(wc, file); err != nil {
		return "", fmt.Errorf("failed to copy file to GCS: %v", err)
	}

	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %v", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("failed to set ACL: %v", err)
	}

	logger.Debug("Uploaded %s (%s)", objectName, contentType)

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, objectName), nil
}

// DeleteByAssetID removes the stored object named by an asset id such
// as "market-items/abc123".
func (c *CloudStorageClient) DeleteByAssetID(ctx context.Context, assetID string) error {
	it := c.client.Bucket(c.bucketName).Objects(ctx, &storage.Query{Prefix: assetID})
	obj, err := it.Next()
	if err != nil {
		return fmt.Errorf("asset not found: %s", assetID)
	}

	if err := c.client.Bucket(c.bucketName).Object(obj.Name).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}

// AssetIDFromURL derives the stored asset id from an image URL: the
// trailing path segment with its extension removed, prefixed by the
// folder. An empty string means the URL carries no recognizable asset.
func AssetIDFromURL(imageURL, folder string) string {
	parsed, err := url.Parse(imageURL)
	if err != nil || parsed.Path == "" {
		return ""
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	last := segments[len(segments)-1]
	if last == "" {
		return ""
	}

	if dot := strings.Index(last, "."); dot > 0 {
		last = last[:dot]
	}
	return folder + "/" + last
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
