package repositories

import (
	"context"

	"github.com/anonto42/nano-midea/mailer/internal/models"
	"gorm.io/gorm"
)

// RunRepository defines the interface for the finder run ledger
type RunRepository interface {
	Record(ctx context.Context, run *models.FinderRun) error
	Recent(ctx context.Context, limit int) ([]models.FinderRun, error)
}

type postgresRunRepository struct {
	db *gorm.DB
}

func NewPostgresRunRepository(db *gorm.DB) RunRepository {
	return &postgresRunRepository{db: db}
}

func (r *postgresRunRepository) Record(ctx context.Context, run *models.FinderRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *postgresRunRepository) Recent(ctx context.Context, limit int) ([]models.FinderRun, error) {
	var runs []models.FinderRun
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

// nopRunRepository is used when no PostgreSQL connection is configured
type nopRunRepository struct{}

func NewNopRunRepository() RunRepository {
	return nopRunRepository{}
}

func (nopRunRepository) Record(context.Context, *models.FinderRun) error { return nil }

func (nopRunRepository) Recent(context.Context, int) ([]models.FinderRun, error) {
	return []models.FinderRun{}, nil
}
