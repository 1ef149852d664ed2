package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	cfg "github.com/postcue/postcue/configs"
	"github.com/postcue/postcue/pkg/utils"
)

// MediaService is the media collaborator: it turns uploaded files into
// durable, opaque media refs. The scheduler core never looks past the ref.
type MediaService interface {
	Upload(ctx context.Context, files []*multipart.FileHeader) ([]string, error)
}

type mediaService struct {
	config cfg.Config
}

func NewMediaService(cfg cfg.Config) MediaService {
	return &mediaService{config: cfg}
}

func (s *mediaService) r2Client() (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.config.R2.AccessKey, s.config.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.config.R2.AccountID))
	}), nil
}

func (s *mediaService) Upload(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	allowedTypes := map[string]struct{}{
		"mp4": {}, "mov": {}, "jpeg": {}, "png": {}, "jpg": {},
	}

	var refs []string
	for _, file := range files {
		fileContent, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("error opening file: %w", err)
		}
		defer fileContent.Close()

		fileBytes, err := io.ReadAll(fileContent)
		if err != nil {
			return nil, fmt.Errorf("error reading file content: %w", err)
		}

		fileType, err := filetype.Match(fileBytes)
		if err != nil || fileType == types.Unknown {
			return nil, fmt.Errorf("unsupported file type: %w", err)
		}
		if _, ok := allowedTypes[fileType.Extension]; !ok {
			return nil, fmt.Errorf("file type %s is not allowed", fileType.Extension)
		}

		ref, err := s.store(ctx, fileBytes, fileType.MIME.Value)
		if err != nil {
			return nil, fmt.Errorf("error uploading file: %w", err)
		}
		refs = append(refs, ref)
	}

	return refs, nil
}

func (s *mediaService) store(ctx context.Context, file []byte, contentType string) (string, error) {
	key, err := utils.NewID()
	if err != nil {
		slog.Error(err.Error())
		return "", err
	}

	client, err := s.r2Client()
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.config.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(contentType),
	}

	if _, err := client.PutObject(ctx, input); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return fmt.Sprintf("%s/%s", s.config.R2.PublicURL, key), nil
}
