package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wellness/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the part of *s3.Client used for profile pictures.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type ImageUploader struct {
	client  S3API
	bucket  string
	baseURL string
	now     func() time.Time
}

// NewImageUploader uploads into bucket and returns URLs under baseURL,
// normally a CloudFront distribution in front of the bucket.
func NewImageUploader(client S3API, bucket, baseURL string) *ImageUploader {
	return &ImageUploader{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		now:     time.Now,
	}
}

// UploadProfilePicture stores a base64 data URI and returns its public URL.
func (u *ImageUploader) UploadProfilePicture(ctx context.Context, userID uint, dataURI string) (string, error) {
	contentType, data, err := utils.DecodeDataURI(dataURI)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidDataURI) {
			return "", invalidInput(err.Error())
		}
		return "", err
	}

	key := fmt.Sprintf("profile-pictures/%d-%d%s", userID, u.now().UnixNano(), utils.ImageExtension(contentType))
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return u.baseURL + "/" + key, nil
}
