package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/models"
)

type UploadRepositoryImpl struct {
	db *sqlx.DB
}

func NewUploadRepository(db *sqlx.DB) *UploadRepositoryImpl {
	return &UploadRepositoryImpl{db: db}
}

func (r *UploadRepositoryImpl) Create(ctx context.Context, upload *models.Upload) error {
	query := `
		INSERT INTO uploads (upload_id, user_id, object_key, content_type, size, strategy, created_at)
		VALUES (:upload_id, :user_id, :object_key, :content_type, :size, :strategy, :created_at)
	`

	if upload.UploadID == "" {
		upload.UploadID = uuid.New().String()
	}

	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.NamedExecContext(ctx, query, upload)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("object key %s already recorded", upload.ObjectKey)
		}
		return upstream(err, "error recording upload")
	}

	return nil
}

func (r *UploadRepositoryImpl) GetByKey(ctx context.Context, objectKey string) (*models.Upload, error) {
	query := `SELECT * FROM uploads WHERE object_key = $1`

	var upload models.Upload
	err := r.db.GetContext(ctx, &upload, query, objectKey)
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFound("upload %s not found", objectKey)
		}
		return nil, upstream(err, "error getting upload")
	}

	return &upload, nil
}
