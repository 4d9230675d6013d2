package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealbridge/mealbridge-backend/internal/redistribution"
	"github.com/mealbridge/mealbridge-backend/pkg/db/models"
)

// Repository is the persistence surface for user accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	PreferencesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]redistribution.UserPrefs, error)
	ClearCart(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a users repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// PreferencesByIDs loads the redistribution targeting slice of each user.
// Unknown ids are simply absent from the result.
func (r *repository) PreferencesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]redistribution.UserPrefs, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]redistribution.UserPrefs{}, nil
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Select("id", "diet_preference", "sugar_preference").
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]redistribution.UserPrefs, len(users))
	for _, user := range users {
		out[user.ID] = redistribution.UserPrefs{
			DietPreference:  user.DietPreference,
			SugarPreference: user.SugarPreference,
		}
	}
	return out, nil
}

func (r *repository) ClearCart(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	return conn.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("cart_data", nil).Error
}
