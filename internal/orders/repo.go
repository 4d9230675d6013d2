package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealbridge/mealbridge-backend/pkg/db/models"
	"github.com/mealbridge/mealbridge-backend/pkg/enums"
)

// Repository is the persistence surface for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Save(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]models.Order, error)
	ListByStatus(ctx context.Context, status enums.OrderStatus) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	ClaimRedistributing(ctx context.Context, id, claimer uuid.UUID, claimerName, originalUserName string, amount int64) (bool, error)
	AssignDriver(ctx context.Context, id, driverID uuid.UUID, driverName string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Order{}).Error
}

// ListByUser returns orders the user placed or later claimed, newest first.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? OR claimed_by = ?", userID, userID).
		Order("placed_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("placed_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListByStatus(ctx context.Context, status enums.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("placed_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Order("placed_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ClaimRedistributing moves an order to the claimer in one conditional
// update. Ownership transfers: the placer is snapshotted into the
// original_user columns and user_id becomes the claimer. The WHERE clause
// loses the race when someone claimed first or the order already left
// Redistribute, in which case no row changes.
func (r *repository) ClaimRedistributing(ctx context.Context, id, claimer uuid.UUID, claimerName, originalUserName string, amount int64) (bool, error) {
	updates := map[string]any{
		"original_user_id": gorm.Expr("user_id"),
		"user_id":          claimer,
		"claimed_by":       claimer,
		"claimed_at":       time.Now(),
		"status":           enums.OrderStatusFoodPreparing,
		"amount":           amount,
	}
	if claimerName != "" {
		updates["claimed_by_name"] = claimerName
	}
	if originalUserName != "" {
		updates["original_user_name"] = originalUserName
	}
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ? AND claimed_by IS NULL", id, enums.OrderStatusRedistribute).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// AssignDriver hands the delivery to a driver in one conditional update. The
// first driver wins; later attempts change no rows.
func (r *repository) AssignDriver(ctx context.Context, id, driverID uuid.UUID, driverName string) (bool, error) {
	updates := map[string]any{
		"driver_id":          driverID,
		"driver_assigned_at": time.Now(),
		"status":             enums.OrderStatusDriverAssigned,
	}
	if driverName != "" {
		updates["driver_name"] = driverName
	}
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ? AND driver_id IS NULL", id, enums.OrderStatusLookingForDriver).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
