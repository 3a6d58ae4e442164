// Package blob uploads post images to an object store under a per-owner
// namespace and derives their public URLs.
package blob

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
)

// ObjectStore puts publicly readable objects.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
}

// Image is an uploaded file as decoded from a multipart body.
type Image struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Uploader stores images and returns the URL they are served from.
type Uploader struct {
	objects ObjectStore
	bucket  string
	region  string
	now     func() time.Time
}

func NewUploader(objects ObjectStore, bucket, region string) *Uploader {
	return &Uploader{
		objects: objects,
		bucket:  bucket,
		region:  region,
		now:     time.Now,
	}
}

// Upload stores img under images/{owner}/ named after the current time in
// milliseconds and the image's extension.
func (u *Uploader) Upload(ctx context.Context, owner string, img Image) (string, error) {
	key := Key(owner, u.filename(img.Filename))
	if err := u.objects.PutObject(ctx, key, img.Content, img.ContentType); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return u.URL(key), nil
}

// Key is the object key of name in owner's namespace. It is plain
// concatenation: object keys are never cleaned, so the key and the URL
// built from it always name the same object.
func Key(owner, name string) string {
	return "images/" + owner + "/" + name
}

func (u *Uploader) URL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}

func (u *Uploader) filename(original string) string {
	stamp := fmt.Sprint(u.now().UnixMilli())
	ext := strings.TrimPrefix(path.Ext(original), ".")
	if ext == "" {
		return stamp
	}
	return stamp + "." + ext
}
