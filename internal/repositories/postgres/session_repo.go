package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/notewell/notewell/internal/models"
	"github.com/notewell/notewell/internal/utils"
)

type SessionRepo interface {
	Insert(ctx context.Context, s *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	List(ctx context.Context, skip, limit int) ([]models.Session, int64, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) (bool, error)
	FindByContentHash(ctx context.Context, hash string) (*models.Session, error)
}

type sessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) SessionRepo {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Insert(ctx context.Context, s *models.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	var row models.Session
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *sessionRepo) List(ctx context.Context, skip, limit int) ([]models.Session, int64, error) {
	if limit <= 0 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Session
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *sessionRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *sessionRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{})
	return res.RowsAffected > 0, res.Error
}

// FindByContentHash returns the most recent session with the same transcript
// fingerprint, for duplicate detection.
func (r *sessionRepo) FindByContentHash(ctx context.Context, hash string) (*models.Session, error) {
	var row models.Session
	err := r.db.WithContext(ctx).
		Where("content_hash = ?", hash).
		Order("created_at DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}
