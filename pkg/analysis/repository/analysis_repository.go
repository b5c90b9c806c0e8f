package repository

import (
	"context"

	"plantdoctor/entities"
)

type AnalysisRepository interface {
	Record(ctx context.Context, a *entities.AnalysisLog) error
	Recent(ctx context.Context, limit int) ([]entities.AnalysisLog, error)
}
