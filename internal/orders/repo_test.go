package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mealbridge/mealbridge-backend/pkg/db/models"
	"github.com/mealbridge/mealbridge-backend/pkg/enums"
	"github.com/mealbridge/mealbridge-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:ordersrepo?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  original_user_id TEXT,
  original_user_name TEXT,
  claimed_by TEXT,
  claimed_by_name TEXT,
  claimed_at DATETIME,
  cancelled_by TEXT,
  driver_id TEXT,
  driver_name TEXT,
  driver_assigned_at DATETIME,
  delivered_at DATETIME,
  items TEXT NOT NULL,
  address TEXT NOT NULL,
  amount INTEGER NOT NULL,
  original_amount INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'Food Preparing',
  payment INTEGER NOT NULL DEFAULT 0,
  shelter TEXT,
  donation_notified INTEGER NOT NULL DEFAULT 0,
  rating INTEGER,
  feedback TEXT,
  rated_at DATETIME,
  placed_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec("DELETE FROM orders").Error)
	return db
}

func newTestOrder(userID uuid.UUID, placedAt time.Time) *models.Order {
	return &models.Order{
		ID:     uuid.New(),
		UserID: userID,
		Items: types.OrderItems{
			{Name: "Veg Thali", Price: 180, Quantity: 1},
		},
		Address:        types.Address{FirstName: "Asha", City: "Pune"},
		Amount:         180,
		OriginalAmount: 180,
		Status:         enums.OrderStatusFoodPreparing,
		PlacedAt:       placedAt,
	}
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := newTestOrder(uuid.New(), time.Now())
	created, err := repo.Create(ctx, order)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, enums.OrderStatusFoodPreparing, found.Status)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Veg Thali", found.Items[0].Name)
	assert.Equal(t, "Asha", found.Address.FirstName)
}

func TestRepositoryFindMissing(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListByUserIncludesClaimed(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	otherID := uuid.New()
	now := time.Now()

	older := newTestOrder(userID, now.Add(-2*time.Hour))
	newer := newTestOrder(userID, now)
	claimed := newTestOrder(otherID, now.Add(-time.Hour))
	claimed.ClaimedBy = &userID
	unrelated := newTestOrder(otherID, now)

	for _, o := range []*models.Order{older, newer, claimed, unrelated} {
		_, err := repo.Create(ctx, o)
		require.NoError(t, err)
	}

	orders, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, claimed.ID, orders[1].ID)
	assert.Equal(t, older.ID, orders[2].ID)
}

func TestRepositoryListByDriver(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	driverID := uuid.New()
	assigned := newTestOrder(uuid.New(), time.Now())
	assigned.DriverID = &driverID
	assigned.Status = enums.OrderStatusDriverAssigned
	unassigned := newTestOrder(uuid.New(), time.Now())

	for _, o := range []*models.Order{assigned, unassigned} {
		_, err := repo.Create(ctx, o)
		require.NoError(t, err)
	}

	orders, err := repo.ListByDriver(ctx, driverID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, assigned.ID, orders[0].ID)
}

func TestRepositoryDelete(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := newTestOrder(uuid.New(), time.Now())
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, order.ID))
	_, err = repo.FindByID(ctx, order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClaimRedistributingWinsOnce(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := newTestOrder(uuid.New(), time.Now())
	order.Status = enums.OrderStatusRedistribute
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	placer := order.UserID
	first := uuid.New()
	second := uuid.New()

	won, err := repo.ClaimRedistributing(ctx, order.ID, first, "Ravi", "Asha", 120)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.ClaimRedistributing(ctx, order.ID, second, "Meera", "Asha", 120)
	require.NoError(t, err)
	assert.False(t, won, "second claim must lose the race")

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found.ClaimedBy)
	assert.Equal(t, first, *found.ClaimedBy)
	assert.Equal(t, first, found.UserID, "ownership must transfer to the claimer")
	require.NotNil(t, found.OriginalUserID)
	assert.Equal(t, placer, *found.OriginalUserID)
	require.NotNil(t, found.ClaimedByName)
	assert.Equal(t, "Ravi", *found.ClaimedByName)
	require.NotNil(t, found.OriginalUserName)
	assert.Equal(t, "Asha", *found.OriginalUserName)
	assert.Equal(t, enums.OrderStatusFoodPreparing, found.Status)
	assert.Equal(t, int64(120), found.Amount)
	assert.Equal(t, int64(180), found.OriginalAmount)
}

func TestClaimRedistributingMovesOrderOffPlacersList(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	placer := uuid.New()
	order := newTestOrder(placer, time.Now())
	order.Status = enums.OrderStatusRedistribute
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	claimer := uuid.New()
	won, err := repo.ClaimRedistributing(ctx, order.ID, claimer, "Ravi", "Asha", 120)
	require.NoError(t, err)
	require.True(t, won)

	placerOrders, err := repo.ListByUser(ctx, placer)
	require.NoError(t, err)
	assert.Empty(t, placerOrders, "the placer no longer owns the claimed order")

	claimerOrders, err := repo.ListByUser(ctx, claimer)
	require.NoError(t, err)
	require.Len(t, claimerOrders, 1)
	assert.Equal(t, order.ID, claimerOrders[0].ID)
}

func TestAssignDriverWinsOnce(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := newTestOrder(uuid.New(), time.Now())
	order.Status = enums.OrderStatusLookingForDriver
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	first := uuid.New()
	won, err := repo.AssignDriver(ctx, order.ID, first, "Sanjay")
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.AssignDriver(ctx, order.ID, uuid.New(), "Kiran")
	require.NoError(t, err)
	assert.False(t, won, "second driver must lose the race")

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found.DriverID)
	assert.Equal(t, first, *found.DriverID)
	require.NotNil(t, found.DriverName)
	assert.Equal(t, "Sanjay", *found.DriverName)
	assert.Equal(t, enums.OrderStatusDriverAssigned, found.Status)
}

func TestRepositoryListByStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	waiting := newTestOrder(uuid.New(), time.Now())
	waiting.Status = enums.OrderStatusLookingForDriver
	plain := newTestOrder(uuid.New(), time.Now())

	for _, o := range []*models.Order{waiting, plain} {
		_, err := repo.Create(ctx, o)
		require.NoError(t, err)
	}

	byStatus, err := repo.ListByStatus(ctx, enums.OrderStatusLookingForDriver)
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, waiting.ID, byStatus[0].ID)
}

func TestClaimRedistributingRequiresRedistributeStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := newTestOrder(uuid.New(), time.Now())
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	won, err := repo.ClaimRedistributing(ctx, order.ID, uuid.New(), "Ravi", "Asha", 120)
	require.NoError(t, err)
	assert.False(t, won)
}
