package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3/MinIO configuration via environment variables:
// S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY, S3_BUCKET, S3_PUBLIC_URL, S3_USE_SSL

var (
	S3       *minio.Client
	s3Bucket string
)

var ErrObjectNotFound = errors.New("object not found")

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func InitializeS3() {
	endpoint := envOr("S3_ENDPOINT", "localhost:9000")
	useSSL := os.Getenv("S3_USE_SSL") == "true"

	// Endpoint may be configured with a scheme; minio wants host:port.
	if strings.HasPrefix(endpoint, "https://") {
		endpoint = strings.TrimPrefix(endpoint, "https://")
		useSSL = true
	} else if strings.HasPrefix(endpoint, "http://") {
		endpoint = strings.TrimPrefix(endpoint, "http://")
	}

	accessKey := envOr("S3_ACCESS_KEY", "minioadmin")
	secretKey := envOr("S3_SECRET_KEY", "minioadmin123")
	s3Bucket = envOr("S3_BUCKET", "gingerbread")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Panic("error creating minio client: " + err.Error())
	}

	ctx := context.Background()
	if err := client.MakeBucket(ctx, s3Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, existsErr := client.BucketExists(ctx, s3Bucket)
		if existsErr != nil || !exists {
			log.Panicf("error creating bucket %s: %v", s3Bucket, err)
		}
	}

	S3 = client
	log.Println("S3 initialized with endpoint:", endpoint, "bucket:", s3Bucket)
}

// UploadImage stores an image object and returns its public URL.
func UploadImage(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	_, err := S3.PutObject(ctx, s3Bucket, filename, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return PublicImageURL(filename), nil
}

// PublicImageURL derives the URL clients should use for an uploaded image.
// When S3_PUBLIC_URL points at the /api/images proxy the object is served
// through the API; otherwise it is addressed on the S3 host directly.
func PublicImageURL(filename string) string {
	publicURL := envOr("S3_PUBLIC_URL", "http://localhost:9000")
	if strings.Contains(publicURL, "/api/images") {
		return publicURL + "/" + filename
	}
	if strings.HasPrefix(publicURL, "/api") {
		return "/api/images/" + filename
	}
	return publicURL + "/" + s3Bucket + "/" + filename
}

// GetImage fetches an object for proxying, returning its reader and content type.
func GetImage(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	obj, err := S3.GetObject(ctx, s3Bucket, filename, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", err
	}

	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", err
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return obj, contentType, nil
}
