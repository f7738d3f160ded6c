package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/config"
	"jcbcommunity/internal/metrics"
	"jcbcommunity/internal/models"
	"jcbcommunity/internal/repository"
	"jcbcommunity/internal/storage"
	"jcbcommunity/internal/validation"
)

type GenerateUploadURLRequest struct {
	FileName    string `json:"fileName" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
}

type UploadFileRequest struct {
	FileName    string `json:"fileName" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
	// Base64Data may carry a data URL prefix ("data:image/png;base64,").
	Base64Data string `json:"base64Data" validate:"required"`
}

type UploadService interface {
	GenerateUploadURL(ctx context.Context, userID string, req GenerateUploadURLRequest) (*models.PresignedUpload, error)
	UploadFile(ctx context.Context, userID string, req UploadFileRequest) (*models.UploadResult, error)
	GetFileURL(ctx context.Context, userID, key string) (string, error)
	VerifyAccess(ctx context.Context) error
}

type uploadService struct {
	uploadRepo repository.UploadRepository
	storage    storage.Storage
	validate   *validator.Validate
	cfg        config.Upload
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

func NewUploadService(uploadRepo repository.UploadRepository, store storage.Storage, cfg config.Upload, m *metrics.Metrics, logger *zap.Logger) UploadService {
	return &uploadService{
		uploadRepo: uploadRepo,
		storage:    store,
		validate:   validation.New(),
		cfg:        cfg,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

func checkContentType(contentType string) error {
	if !models.IsAllowedImageType(contentType) {
		return apperr.Validation("unsupported content type %q, allowed: %s",
			contentType, strings.Join(models.AllowedImageTypes, ", "))
	}
	return nil
}

func (s *uploadService) GenerateUploadURL(ctx context.Context, userID string, req GenerateUploadURLRequest) (*models.PresignedUpload, error) {
	if err := validation.Struct(s.validate, req); err != nil {
		return nil, err
	}
	if err := checkContentType(req.ContentType); err != nil {
		return nil, err
	}

	key := storage.GenerateKey(userID, req.FileName, s.now())

	presignedURL, err := s.storage.PresignedPutURL(ctx, key)
	if err != nil {
		s.record(models.UploadStrategyPresigned, "error")
		return nil, err
	}

	fileURL, err := s.storage.PresignedGetURL(ctx, key)
	if err != nil {
		s.record(models.UploadStrategyPresigned, "error")
		return nil, err
	}

	upload := &models.Upload{
		UserID:      userID,
		ObjectKey:   key,
		ContentType: req.ContentType,
		Strategy:    models.UploadStrategyPresigned,
	}
	if err := s.uploadRepo.Create(ctx, upload); err != nil {
		s.record(models.UploadStrategyPresigned, "error")
		return nil, err
	}

	s.record(models.UploadStrategyPresigned, "issued")
	s.logger.Info("presigned upload issued", zap.String("user_id", userID), zap.String("key", key))

	return &models.PresignedUpload{PresignedURL: presignedURL, Key: key, FileURL: fileURL}, nil
}

func (s *uploadService) UploadFile(ctx context.Context, userID string, req UploadFileRequest) (*models.UploadResult, error) {
	if err := validation.Struct(s.validate, req); err != nil {
		return nil, err
	}
	if err := checkContentType(req.ContentType); err != nil {
		return nil, err
	}

	data, err := decodeBase64Payload(req.Base64Data)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, apperr.Validation("file is empty")
	}
	if int64(len(data)) > s.cfg.MaxUploadSize {
		return nil, apperr.Validation("file is %d bytes, the limit is %d", len(data), s.cfg.MaxUploadSize)
	}

	key := storage.GenerateKey(userID, req.FileName, s.now())

	if err := s.storage.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), req.ContentType); err != nil {
		s.record(models.UploadStrategyServer, "error")
		s.logger.Warn("storage write failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	upload := &models.Upload{
		UserID:      userID,
		ObjectKey:   key,
		ContentType: req.ContentType,
		Size:        int64(len(data)),
		Strategy:    models.UploadStrategyServer,
	}
	if err := s.uploadRepo.Create(ctx, upload); err != nil {
		if delErr := s.storage.DeleteObject(ctx, key); delErr != nil {
			s.logger.Error("error removing unrecorded object", zap.String("key", key), zap.Error(delErr))
		}
		s.record(models.UploadStrategyServer, "error")
		return nil, err
	}

	fileURL, err := s.storage.PresignedGetURL(ctx, key)
	if err != nil {
		s.record(models.UploadStrategyServer, "error")
		return nil, err
	}

	s.record(models.UploadStrategyServer, "stored")
	s.logger.Info("file uploaded",
		zap.String("user_id", userID),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)

	return &models.UploadResult{Success: true, FileURL: fileURL, Key: key}, nil
}

// GetFileURL presigns a download for a key this service issued or wrote for
// userID. Keys owned by someone else are reported as not found.
func (s *uploadService) GetFileURL(ctx context.Context, userID, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", apperr.Validation("key is required")
	}
	if !storage.OwnedBy(key, userID) {
		return "", apperr.NotFound("upload %s not found", key)
	}

	upload, err := s.uploadRepo.GetByKey(ctx, key)
	if err != nil {
		return "", err
	}
	if upload.UserID != userID {
		return "", apperr.NotFound("upload %s not found", key)
	}

	return s.storage.PresignedGetURL(ctx, key)
}

func (s *uploadService) VerifyAccess(ctx context.Context) error {
	if err := s.storage.CheckAccess(ctx); err != nil {
		s.logger.Warn("storage access check failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *uploadService) record(strategy, result string) {
	s.metrics.Uploads.WithLabelValues(strategy, result).Inc()
}

// decodeBase64Payload strips an optional "data:<type>;base64," prefix and decodes the rest.
func decodeBase64Payload(payload string) ([]byte, error) {
	if strings.HasPrefix(payload, "data:") {
		if i := strings.Index(payload, ";base64,"); i >= 0 {
			payload = payload[i+len(";base64,"):]
		}
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, apperr.Validation("base64Data is not valid base64")
	}
	return data, nil
}
