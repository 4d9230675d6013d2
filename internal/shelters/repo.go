package shelters

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealbridge/mealbridge-backend/pkg/db/models"
)

// Repository is the persistence surface for shelter accounts.
type Repository interface {
	Create(ctx context.Context, shelter *models.Shelter) (*models.Shelter, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shelter, error)
	FindByEmail(ctx context.Context, email string) (*models.Shelter, error)
	ListAll(ctx context.Context) ([]models.Shelter, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a shelters repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, shelter *models.Shelter) (*models.Shelter, error) {
	if err := r.db.WithContext(ctx).Create(shelter).Error; err != nil {
		return nil, err
	}
	return shelter, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shelter, error) {
	var shelter models.Shelter
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&shelter).Error
	if err != nil {
		return nil, err
	}
	return &shelter, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.Shelter, error) {
	var shelter models.Shelter
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&shelter).Error
	if err != nil {
		return nil, err
	}
	return &shelter, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Shelter, error) {
	var shelters []models.Shelter
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&shelters).Error
	if err != nil {
		return nil, err
	}
	return shelters, nil
}
