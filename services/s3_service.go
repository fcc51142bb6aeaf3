package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PhotoService resolves stored profile photo keys into short-lived presigned
// read URLs. Upload and deletion live with the media pipeline, not here.
type PhotoService struct {
	Presigner *s3.PresignClient
	Bucket    string
	Expiry    time.Duration
}

// NewPhotoService constructs the presigner for the given bucket.
func NewPhotoService(region, bucket string) *PhotoService {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	client := s3.NewFromConfig(cfg)
	return &PhotoService{
		Presigner: s3.NewPresignClient(client),
		Bucket:    bucket,
		Expiry:    5 * time.Minute,
	}
}

// ReadURL generates a presigned URL for reading a stored photo. Keys that are
// already absolute URLs pass through untouched.
func (s *PhotoService) ReadURL(ctx context.Context, key string) (string, error) {
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key, nil
	}

	params := &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}
	presigned, err := s.Presigner.PresignGetObject(ctx, params, s3.WithPresignExpires(s.Expiry))
	if err != nil {
		return "", err
	}
	return presigned.URL, nil
}

// ReadURLs presigns a photo list, keeping order and skipping keys that fail.
func (s *PhotoService) ReadURLs(ctx context.Context, keys []string) []string {
	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		url, err := s.ReadURL(ctx, key)
		if err != nil {
			log.Printf("⚠️ Failed to presign photo %s: %v", key, err)
			continue
		}
		urls = append(urls, url)
	}
	return urls
}
