package reroutes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealbridge/mealbridge-backend/pkg/db/models"
	"github.com/mealbridge/mealbridge-backend/pkg/enums"
)

// Repository is the persistence surface for shelter assignments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, tx *gorm.DB, reroute *models.Reroute) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Reroute, error)
	ListByShelterAndStatus(ctx context.Context, shelterID uuid.UUID, statuses ...enums.RerouteStatus) ([]models.Reroute, error)
	Save(ctx context.Context, reroute *models.Reroute) error
	CountByShelterAndStatus(ctx context.Context, shelterID uuid.UUID, status enums.RerouteStatus) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reroutes repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, tx *gorm.DB, reroute *models.Reroute) error {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	return conn.WithContext(ctx).Create(reroute).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Reroute, error) {
	var reroute models.Reroute
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&reroute).Error
	if err != nil {
		return nil, err
	}
	return &reroute, nil
}

func (r *repository) ListByShelterAndStatus(ctx context.Context, shelterID uuid.UUID, statuses ...enums.RerouteStatus) ([]models.Reroute, error) {
	query := r.db.WithContext(ctx).Where("shelter_id = ?", shelterID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var reroutes []models.Reroute
	err := query.Order("created_at DESC").Find(&reroutes).Error
	if err != nil {
		return nil, err
	}
	return reroutes, nil
}

func (r *repository) Save(ctx context.Context, reroute *models.Reroute) error {
	return r.db.WithContext(ctx).Save(reroute).Error
}

func (r *repository) CountByShelterAndStatus(ctx context.Context, shelterID uuid.UUID, status enums.RerouteStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reroute{}).
		Where("shelter_id = ? AND status = ?", shelterID, status).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
