package upload

import (
	"context"
	"fmt"

	"jcbcommunity/internal/models"
)

const (
	StrategyPresigned = models.UploadStrategyPresigned
	StrategyServer    = models.UploadStrategyServer
)

// File is a payload held in memory by the caller.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Strategy moves a file into object storage and returns a URL the feed can display.
type Strategy interface {
	Name() string
	Upload(ctx context.Context, file File) (string, error)
}

// PresignedAPI is the part of the API client the direct strategy needs.
type PresignedAPI interface {
	GenerateUploadURL(ctx context.Context, fileName, contentType string) (*models.PresignedUpload, error)
	PutPresigned(ctx context.Context, presignedURL, contentType string, data []byte) error
	GetFileURL(ctx context.Context, key string) (string, error)
}

// ServerAPI is the part of the API client the server-side strategy needs.
type ServerAPI interface {
	UploadFile(ctx context.Context, fileName, contentType string, data []byte) (*models.UploadResult, error)
}

// PresignedStrategy asks for a write URL and pushes the bytes to storage itself.
type PresignedStrategy struct {
	API PresignedAPI
}

func (s PresignedStrategy) Name() string { return StrategyPresigned }

func (s PresignedStrategy) Upload(ctx context.Context, file File) (string, error) {
	presigned, err := s.API.GenerateUploadURL(ctx, file.Name, file.ContentType)
	if err != nil {
		return "", fmt.Errorf("generating upload url: %w", err)
	}

	if err := s.API.PutPresigned(ctx, presigned.PresignedURL, file.ContentType, file.Data); err != nil {
		return "", fmt.Errorf("writing object: %w", err)
	}

	fileURL, err := s.API.GetFileURL(ctx, presigned.Key)
	if err != nil {
		return "", fmt.Errorf("resolving file url: %w", err)
	}
	return fileURL, nil
}

// ServerStrategy hands base64 bytes to the backend, which writes them to storage.
type ServerStrategy struct {
	API ServerAPI
}

func (s ServerStrategy) Name() string { return StrategyServer }

func (s ServerStrategy) Upload(ctx context.Context, file File) (string, error) {
	result, err := s.API.UploadFile(ctx, file.Name, file.ContentType, file.Data)
	if err != nil {
		return "", fmt.Errorf("server upload: %w", err)
	}
	if !result.Success || result.FileURL == "" {
		return "", fmt.Errorf("server upload: no file url returned")
	}
	return result.FileURL, nil
}
