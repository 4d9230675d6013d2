package orders

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mealbridge/mealbridge-backend/internal/redistribution"
	"github.com/mealbridge/mealbridge-backend/pkg/config"
	"github.com/mealbridge/mealbridge-backend/pkg/db/models"
	"github.com/mealbridge/mealbridge-backend/pkg/enums"
	pkgerrors "github.com/mealbridge/mealbridge-backend/pkg/errors"
	"github.com/mealbridge/mealbridge-backend/pkg/logger"
	"github.com/mealbridge/mealbridge-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userDirectory interface {
	ClearCart(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type shelterFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shelter, error)
}

type rerouteWriter interface {
	Create(ctx context.Context, tx *gorm.DB, reroute *models.Reroute) error
}

type redistributionNotifier interface {
	Enqueue(ctx context.Context, event redistribution.Event)
	MarkClaimed(orderID uuid.UUID)
}

type statusBroadcaster interface {
	OrderStatusChanged(orderID uuid.UUID, status enums.OrderStatus)
	OrderClaimed(orderID, claimedBy uuid.UUID)
	DriverOrderClaimed(orderID, driverID uuid.UUID, driverName string)
	DriverOrderDelivered(orderID uuid.UUID)
}

// Service defines the order lifecycle operations.
type Service interface {
	Place(ctx context.Context, input PlaceInput) (*models.Order, string, error)
	VerifyPayment(ctx context.Context, orderID uuid.UUID, success bool) (bool, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, requested enums.OrderStatus) (*models.Order, bool, error)
	Cancel(ctx context.Context, orderID, actorID uuid.UUID) (*models.Order, error)
	Claim(ctx context.Context, orderID, claimerID uuid.UUID) (*models.Order, error)
	AssignShelter(ctx context.Context, orderID, shelterID uuid.UUID) (*models.Order, bool, error)
	Rate(ctx context.Context, input RateInput) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UserOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	DriverAvailable(ctx context.Context) ([]models.Order, error)
	DriverClaim(ctx context.Context, orderID, driverID uuid.UUID) (*models.Order, error)
	DriverDelivered(ctx context.Context, orderID, driverID uuid.UUID) (*models.Order, error)
	DriverOrders(ctx context.Context, driverID uuid.UUID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	Impact(ctx context.Context, userID uuid.UUID) (*ImpactSummary, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	users     userDirectory
	shelters  shelterFinder
	reroutes  rerouteWriter
	notifier  redistributionNotifier
	broadcast statusBroadcaster
	checkout  config.CheckoutConfig
	logg      *logger.Logger
	now       func() time.Time
}

// NewService wires the order lifecycle service.
func NewService(
	repo Repository,
	tx txRunner,
	users userDirectory,
	shelters shelterFinder,
	reroutes rerouteWriter,
	notifier redistributionNotifier,
	broadcast statusBroadcaster,
	checkout config.CheckoutConfig,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if users == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	if shelters == nil {
		return nil, fmt.Errorf("shelter finder is required")
	}
	if reroutes == nil {
		return nil, fmt.Errorf("reroute writer is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("redistribution notifier is required")
	}
	if broadcast == nil {
		return nil, fmt.Errorf("status broadcaster is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		users:     users,
		shelters:  shelters,
		reroutes:  reroutes,
		notifier:  notifier,
		broadcast: broadcast,
		checkout:  checkout,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// PlaceInput carries everything needed to create an order.
type PlaceInput struct {
	UserID         uuid.UUID
	Items          types.OrderItems
	Address        types.Address
	Amount         int64
	CashOnDelivery bool
}

// ImpactSummary is a user's donation footprint: orders still up for
// redistribution versus orders that reached a shelter.
type ImpactSummary struct {
	PendingCount int            `json:"pendingCount"`
	DonatedCount int            `json:"donatedCount"`
	Pending      []models.Order `json:"pending"`
	Donated      []models.Order `json:"donated"`
}

// RateInput carries a delivered-order rating.
type RateInput struct {
	OrderID  uuid.UUID
	ActorID  uuid.UUID
	Rating   int
	Feedback string
}

// Place creates the order in Food Preparing and clears the user's cart in the
// same transaction. Card orders start unpaid and return the checkout session
// URL the frontend redirects to; cash-on-delivery orders are paid on the spot.
func (s *service) Place(ctx context.Context, input PlaceInput) (*models.Order, string, error) {
	if len(input.Items) == 0 {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one item")
	}
	if input.Amount <= 0 {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "order amount must be positive")
	}

	order := &models.Order{
		ID:             uuid.New(),
		UserID:         input.UserID,
		Items:          input.Items,
		Address:        input.Address,
		Amount:         input.Amount,
		OriginalAmount: input.Amount,
		Status:         enums.OrderStatusFoodPreparing,
		Payment:        input.CashOnDelivery,
		PlacedAt:       s.now(),
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}
		if err := s.users.ClearCart(ctx, tx, input.UserID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	sessionURL := ""
	if !input.CashOnDelivery {
		sessionURL = s.checkoutSessionURL(order.ID)
	}

	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order placed")
	return order, sessionURL, nil
}

// checkoutSessionURL builds the frontend verification redirect for a card
// order. The verify callback settles the payment from there.
func (s *service) checkoutSessionURL(orderID uuid.UUID) string {
	u, err := url.Parse(s.checkout.FrontendURL)
	if err != nil {
		return ""
	}
	u.Path = "/verify"
	q := url.Values{}
	q.Set("success", "true")
	q.Set("orderId", orderID.String())
	u.RawQuery = q.Encode()
	return u.String()
}

// VerifyPayment settles the gateway callback. A successful payment marks the
// order paid; a failed one deletes the order outright.
func (s *service) VerifyPayment(ctx context.Context, orderID uuid.UUID, success bool) (bool, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return false, err
	}

	if !success {
		if err := s.repo.Delete(ctx, order.ID); err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting unpaid order")
		}
		s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "payment failed, order removed")
		return false, nil
	}

	order.Payment = true
	if err := s.repo.Save(ctx, order); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking order paid")
	}
	return true, nil
}

// UpdateStatus moves the order along the lifecycle graph. Re-asserting the
// current status is a no-op success, reported through the changed flag so
// callers can say "unchanged".
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, requested enums.OrderStatus) (*models.Order, bool, error) {
	if !requested.IsValid() {
		return nil, false, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", requested)
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, false, err
	}

	if order.Status == requested {
		return order, false, nil
	}
	if !CanTransition(order.Status, requested) {
		return nil, false, transitionError(order.Status, requested)
	}

	order.Status = requested
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}

	s.broadcast.OrderStatusChanged(order.ID, order.Status)
	return order, true, nil
}

// Cancel releases the order for redistribution. Only the current owner may
// cancel, and only before a driver has been assigned.
func (s *service) Cancel(ctx context.Context, orderID, actorID uuid.UUID) (*models.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.OwnerID() != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the order owner can cancel")
	}
	if order.Status != enums.OrderStatusFoodPreparing && order.Status != enums.OrderStatusLookingForDriver {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict,
			"cannot cancel when status is %q", order.Status).
			WithDetails(map[string]any{"current": order.Status.String()})
	}

	order.Status = enums.OrderStatusRedistribute
	order.CancelledBy = &actorID
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancelling order")
	}

	s.broadcast.OrderStatusChanged(order.ID, order.Status)
	s.notifier.Enqueue(ctx, redistribution.Event{
		OrderID:      order.ID,
		Items:        order.Items,
		CancelledBy:  actorID,
		FoodCategory: DeriveFoodCategory(order.Items),
		Message:      fmt.Sprintf("An order with %d item(s) is up for redistribution", len(order.Items)),
	})

	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order released for redistribution")
	return order, nil
}

// Claim hands a redistributing order to a new user at a discounted price.
// Ownership transfers to the claimer, with the placer kept as the original
// user. The first claim wins; the losing claim gets a conflict.
func (s *service) Claim(ctx context.Context, orderID, claimerID uuid.UUID) (*models.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	claimerName := s.accountName(ctx, claimerID)
	if claimerName == "" {
		claimerName = order.Address.DisplayName()
	}
	originalUserName := order.Address.DisplayName()

	discounted := ClaimAmount(order.OriginalAmount)
	won, err := s.repo.ClaimRedistributing(ctx, order.ID, claimerID, claimerName, originalUserName, discounted)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "claiming order")
	}
	if !won {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is no longer available for claiming")
	}

	s.notifier.MarkClaimed(order.ID)

	claimed, err := s.findOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	s.broadcast.OrderStatusChanged(claimed.ID, claimed.Status)
	s.broadcast.OrderClaimed(claimed.ID, claimerID)
	s.logg.Info(s.logg.WithOrderID(ctx, claimed.ID.String()), "order claimed")
	return claimed, nil
}

// AssignShelter donates the order to a shelter. Calling it again for an
// already-donated order reports alreadyAssigned instead of failing.
func (s *service) AssignShelter(ctx context.Context, orderID, shelterID uuid.UUID) (*models.Order, bool, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, false, err
	}

	if order.Shelter != nil {
		return order, true, nil
	}
	if !CanTransition(order.Status, enums.OrderStatusDonated) {
		return nil, false, transitionError(order.Status, enums.OrderStatusDonated)
	}

	shelter, err := s.shelters.FindByID(ctx, shelterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, pkgerrors.New(pkgerrors.CodeNotFound, "shelter not found")
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shelter")
	}

	snapshot := types.ShelterSnapshot{
		ID:      shelter.ID.String(),
		Name:    shelter.Name,
		Email:   shelter.Email,
		Address: shelter.Address,
		Phone:   shelter.Phone,
	}

	order.Status = enums.OrderStatusDonated
	order.Shelter = &snapshot
	order.DonationNotified = false

	items := types.NormalizeOrderItems(order.Items)
	reroute := &models.Reroute{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ShelterID: shelter.ID,
		Shelter:   &snapshot,
		Items:     items,
		Total:     items.Total(),
		Status:    enums.RerouteStatusPending,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "donating order")
		}
		if err := s.reroutes.Create(ctx, tx, reroute); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating reroute")
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.broadcast.OrderStatusChanged(order.ID, order.Status)
	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order donated to shelter")
	return order, false, nil
}

// Rate records the owner's rating for a delivered order.
func (s *service) Rate(ctx context.Context, input RateInput) (*models.Order, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	order, err := s.findOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.OwnerID() != input.ActorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the order owner can rate")
	}
	if order.Status != enums.OrderStatusDelivered {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict,
			"cannot rate an order in status %q", order.Status)
	}

	rating := input.Rating
	ratedAt := s.now()

	order.Rating = &rating
	order.RatedAt = &ratedAt
	// Blank feedback stays unset; a re-rating without feedback clears the old one.
	order.Feedback = nil
	if feedback := strings.TrimSpace(input.Feedback); feedback != "" {
		order.Feedback = &feedback
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving rating")
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.findOrder(ctx, orderID)
}

func (s *service) UserOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing user orders")
	}
	return orders, nil
}

// DriverAvailable lists the orders waiting for a driver to pick up.
func (s *service) DriverAvailable(ctx context.Context) ([]models.Order, error) {
	orders, err := s.repo.ListByStatus(ctx, enums.OrderStatusLookingForDriver)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing available orders")
	}
	return orders, nil
}

// DriverClaim assigns the delivery to the driver. The first driver wins; the
// losing claim gets a conflict.
func (s *service) DriverClaim(ctx context.Context, orderID, driverID uuid.UUID) (*models.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	driverName := s.accountName(ctx, driverID)
	won, err := s.repo.AssignDriver(ctx, order.ID, driverID, driverName)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assigning driver")
	}
	if !won {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is no longer available for delivery")
	}

	assigned, err := s.findOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	s.broadcast.OrderStatusChanged(assigned.ID, assigned.Status)
	s.broadcast.DriverOrderClaimed(assigned.ID, driverID, driverName)
	s.logg.Info(s.logg.WithOrderID(ctx, assigned.ID.String()), "driver claimed order")
	return assigned, nil
}

// DriverDelivered completes the delivery. Only the assigned driver may do it.
func (s *service) DriverDelivered(ctx context.Context, orderID, driverID uuid.UUID) (*models.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.DriverID == nil || *order.DriverID != driverID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order is assigned to a different driver")
	}
	if order.Status == enums.OrderStatusDelivered {
		// Repeated confirmations keep the first delivery timestamp.
		return order, nil
	}
	if !CanTransition(order.Status, enums.OrderStatusDelivered) {
		return nil, transitionError(order.Status, enums.OrderStatusDelivered)
	}

	deliveredAt := s.now()
	order.Status = enums.OrderStatusDelivered
	order.DeliveredAt = &deliveredAt
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking order delivered")
	}

	s.broadcast.OrderStatusChanged(order.ID, order.Status)
	s.broadcast.DriverOrderDelivered(order.ID)
	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order delivered")
	return order, nil
}

func (s *service) DriverOrders(ctx context.Context, driverID uuid.UUID) ([]models.Order, error) {
	orders, err := s.repo.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing driver orders")
	}
	return orders, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return orders, nil
}

// Impact reports the caller's own redistribution footprint: orders still
// waiting for a claim or donation versus orders that reached a shelter.
func (s *service) Impact(ctx context.Context, userID uuid.UUID) (*ImpactSummary, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing user orders")
	}

	summary := &ImpactSummary{
		Pending: []models.Order{},
		Donated: []models.Order{},
	}
	for _, order := range orders {
		switch order.Status {
		case enums.OrderStatusRedistribute:
			summary.Pending = append(summary.Pending, order)
		case enums.OrderStatusDonated:
			summary.Donated = append(summary.Donated, order)
		}
	}
	summary.PendingCount = len(summary.Pending)
	summary.DonatedCount = len(summary.Donated)
	return summary, nil
}

// accountName resolves a user's display name, best effort. A failed lookup
// yields an empty string rather than failing the caller.
func (s *service) accountName(ctx context.Context, userID uuid.UUID) string {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(user.Name)
}

func (s *service) findOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

var twoThirds = decimal.NewFromInt(2).Div(decimal.NewFromInt(3))

// ClaimAmount prices a claimed order at two thirds of the original amount,
// rounded half away from zero and floored at one currency unit.
func ClaimAmount(originalAmount int64) int64 {
	discounted := decimal.NewFromInt(originalAmount).Mul(twoThirds).Round(0).IntPart()
	if discounted < 1 {
		return 1
	}
	return discounted
}
