package reroutes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealbridge/mealbridge-backend/pkg/db/models"
	"github.com/mealbridge/mealbridge-backend/pkg/enums"
	pkgerrors "github.com/mealbridge/mealbridge-backend/pkg/errors"
	"github.com/mealbridge/mealbridge-backend/pkg/logger"
)

// Service is the shelter portal's view over incoming assignments.
type Service interface {
	Pending(ctx context.Context, shelterID uuid.UUID) ([]models.Reroute, error)
	Decide(ctx context.Context, input DecideInput) (*models.Reroute, error)
	History(ctx context.Context, shelterID uuid.UUID) ([]models.Reroute, error)
	Stats(ctx context.Context, shelterID uuid.UUID) (*ShelterStats, error)
}

// DecideInput is one accept/reject call from the portal. Reason is free text
// the shelter may attach, typically when rejecting.
type DecideInput struct {
	RerouteID uuid.UUID
	ShelterID uuid.UUID
	Accept    bool
	Reason    string
}

// ShelterStats summarizes a shelter's assignment history.
type ShelterStats struct {
	Pending       int64 `json:"pending"`
	Accepted      int64 `json:"accepted"`
	Rejected      int64 `json:"rejected"`
	MealsReceived int64 `json:"mealsReceived"`
	TotalValue    int64 `json:"totalValue"`
}

type service struct {
	repo Repository
	logg *logger.Logger
	now  func() time.Time
}

// NewService wires the shelter portal service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reroutes repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

func (s *service) Pending(ctx context.Context, shelterID uuid.UUID) ([]models.Reroute, error) {
	reroutes, err := s.repo.ListByShelterAndStatus(ctx, shelterID, enums.RerouteStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing pending reroutes")
	}
	return reroutes, nil
}

// Decide settles a pending assignment. Shelters can only decide their own
// assignments, and only once.
func (s *service) Decide(ctx context.Context, input DecideInput) (*models.Reroute, error) {
	reroute, err := s.repo.FindByID(ctx, input.RerouteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reroute not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading reroute")
	}

	if reroute.ShelterID != input.ShelterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reroute belongs to another shelter")
	}
	if reroute.Status != enums.RerouteStatusPending {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict,
			"reroute already %s", reroute.Status)
	}

	decidedAt := s.now()
	if input.Accept {
		reroute.Status = enums.RerouteStatusAccepted
	} else {
		reroute.Status = enums.RerouteStatusRejected
	}
	if reason := strings.TrimSpace(input.Reason); reason != "" {
		reroute.Reason = &reason
	}
	reroute.DecidedAt = &decidedAt

	if err := s.repo.Save(ctx, reroute); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving reroute decision")
	}

	s.logg.Info(s.logg.WithField(ctx, "reroute_id", reroute.ID.String()),
		fmt.Sprintf("reroute %s", reroute.Status))
	return reroute, nil
}

func (s *service) History(ctx context.Context, shelterID uuid.UUID) ([]models.Reroute, error) {
	reroutes, err := s.repo.ListByShelterAndStatus(ctx, shelterID,
		enums.RerouteStatusAccepted, enums.RerouteStatusRejected)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing reroute history")
	}
	return reroutes, nil
}

func (s *service) Stats(ctx context.Context, shelterID uuid.UUID) (*ShelterStats, error) {
	stats := &ShelterStats{}

	var err error
	if stats.Pending, err = s.repo.CountByShelterAndStatus(ctx, shelterID, enums.RerouteStatusPending); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting pending reroutes")
	}
	if stats.Accepted, err = s.repo.CountByShelterAndStatus(ctx, shelterID, enums.RerouteStatusAccepted); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting accepted reroutes")
	}
	if stats.Rejected, err = s.repo.CountByShelterAndStatus(ctx, shelterID, enums.RerouteStatusRejected); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting rejected reroutes")
	}

	accepted, err := s.repo.ListByShelterAndStatus(ctx, shelterID, enums.RerouteStatusAccepted)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading accepted reroutes")
	}
	for _, reroute := range accepted {
		stats.TotalValue += reroute.Total
		for _, item := range reroute.Items {
			stats.MealsReceived += int64(item.Quantity)
		}
	}
	return stats, nil
}
