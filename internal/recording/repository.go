package recording

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

// Store keeps runs and their interactions.
type Store interface {
	CreateRun(ctx context.Context, run *Run) error
	FinishRun(ctx context.Context, id uint, status, errText string, at time.Time) error
	AddInteraction(ctx context.Context, in *Interaction) error
	GetRun(ctx context.Context, id uint) (*Run, error)
	ListRuns(ctx context.Context, limit, offset int) ([]Run, error)
	ListInteractions(ctx context.Context, runID uint) ([]Interaction, error)
}

type Repository struct {
	db *gorm.DB
}

var _ Store = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateRun(ctx context.Context, run *Run) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *Repository) FinishRun(ctx context.Context, id uint, status, errText string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&Run{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":   status,
			"error":    errText,
			"ended_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) AddInteraction(ctx context.Context, in *Interaction) error {
	return r.db.WithContext(ctx).Create(in).Error
}

func (r *Repository) GetRun(ctx context.Context, id uint) (*Run, error) {
	var run Run
	if err := r.db.WithContext(ctx).First(&run, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

func listRunsQuery(tx *gorm.DB, limit, offset int) *gorm.DB {
	return tx.Model(&Run{}).Order("id DESC").Limit(limit).Offset(offset)
}

func (r *Repository) ListRuns(ctx context.Context, limit, offset int) ([]Run, error) {
	var runs []Run
	if err := listRunsQuery(r.db.WithContext(ctx), limit, offset).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func listInteractionsQuery(tx *gorm.DB, runID uint) *gorm.DB {
	return tx.Model(&Interaction{}).Where("run_id = ?", runID).Order("id ASC")
}

func (r *Repository) ListInteractions(ctx context.Context, runID uint) ([]Interaction, error) {
	var out []Interaction
	if err := listInteractionsQuery(r.db.WithContext(ctx), runID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
