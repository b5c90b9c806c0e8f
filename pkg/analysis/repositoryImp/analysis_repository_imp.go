package repositoryImp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"plantdoctor/entities"
	"plantdoctor/pkg/analysis/repository"
)

type analysisRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.AnalysisRepository { return &analysisRepo{db} }

func (r *analysisRepo) Record(ctx context.Context, a *entities.AnalysisLog) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(a).Error
}

// Recent returns the newest rows first.
func (r *analysisRepo) Recent(ctx context.Context, limit int) ([]entities.AnalysisLog, error) {
	var out []entities.AnalysisLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}
