// Package storage keeps generated images in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const thumbnailSize = 256

var (
	ErrUploadFailed = errors.New("upload failed")
	ErrInvalidImage = errors.New("invalid image")
)

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

// ImageStore uploads generated images and hands out presigned links.
type ImageStore struct {
	client    *minio.Client
	bucket    string
	urlExpiry time.Duration
}

func NewImageStore(opts Options) (*ImageStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &ImageStore{client: client, bucket: opts.Bucket, urlExpiry: opts.URLExpiry}, nil
}

func (s *ImageStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// PutImage stores the image plus a JPEG thumbnail and returns a presigned URL of the original.
func (s *ImageStore) PutImage(ctx context.Context, data []byte, contentType string) (string, error) {
	name := ObjectName(uuid.NewString(), contentType)
	if _, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	// thumbnail failures do not fail the upload
	if thumb, err := Thumbnail(data, thumbnailSize); err == nil {
		_, _ = s.client.PutObject(ctx, s.bucket, ThumbnailName(name), bytes.NewReader(thumb), int64(len(thumb)), minio.PutObjectOptions{
			ContentType: "image/jpeg",
		})
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, name, s.urlExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", name, err)
	}
	return u.String(), nil
}

func ObjectName(id, contentType string) string {
	ext := ".png"
	if contentType == "image/jpeg" {
		ext = ".jpg"
	}
	return "generated/" + id + ext
}

func ThumbnailName(objectName string) string {
	return "thumbnails/" + objectName
}

// Thumbnail fits the image into a dim x dim box and encodes it as JPEG.
func Thumbnail(data []byte, dim int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	resized := imaging.Fit(img, dim, dim, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
