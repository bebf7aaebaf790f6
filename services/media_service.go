package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const presignExpiry = 5 * time.Minute

// MediaService issues presigned S3 URLs for avatar images.
type MediaService struct {
	Client *s3.Client
	Bucket string
}

// InitializeS3Client initializes the S3 client
func InitializeS3Client(region string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// AvatarUploadURL generates a presigned URL for uploading an avatar image
func (ms *MediaService) AvatarUploadURL(ctx context.Context, fileName, fileType string) (string, string, error) {
	key := "avatars/" + time.Now().Format("20060102150405") + "-" + fileName
	params := &s3.PutObjectInput{
		Bucket:      aws.String(ms.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}

	presigner := s3.NewPresignClient(ms.Client)
	presigned, err := presigner.PresignPutObject(ctx, params, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", err
	}
	return presigned.URL, key, nil
}

// AvatarReadURL generates a presigned URL for reading an avatar image
func (ms *MediaService) AvatarReadURL(ctx context.Context, key string) (string, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(ms.Bucket),
		Key:    aws.String(key),
	}

	presigner := s3.NewPresignClient(ms.Client)
	presigned, err := presigner.PresignGetObject(ctx, params, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}
	return presigned.URL, nil
}
