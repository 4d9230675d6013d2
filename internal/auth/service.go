package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealbridge/mealbridge-backend/internal/shelters"
	"github.com/mealbridge/mealbridge-backend/internal/users"
	pkgauth "github.com/mealbridge/mealbridge-backend/pkg/auth"
	"github.com/mealbridge/mealbridge-backend/pkg/config"
	"github.com/mealbridge/mealbridge-backend/pkg/db"
	"github.com/mealbridge/mealbridge-backend/pkg/db/models"
	"github.com/mealbridge/mealbridge-backend/pkg/enums"
	pkgerrors "github.com/mealbridge/mealbridge-backend/pkg/errors"
	"github.com/mealbridge/mealbridge-backend/pkg/logger"
	"github.com/mealbridge/mealbridge-backend/pkg/security"
)

type sessionStore interface {
	Create(ctx context.Context, tokenID, subject string) error
	Revoke(ctx context.Context, tokenID string) error
}

// Service handles account registration and login for users and shelters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Logout(ctx context.Context, tokenID string) error
	ShelterLogin(ctx context.Context, email, password string) (*models.Shelter, string, error)
}

// RegisterInput carries a new account request.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	Role            enums.MemberRole
	DietPreference  enums.DietPreference
	SugarPreference enums.SugarPreference
}

type service struct {
	users    users.Repository
	shelters shelters.Repository
	sessions sessionStore
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the auth service.
func NewService(
	userRepo users.Repository,
	shelterRepo shelters.Repository,
	sessions sessionStore,
	jwtCfg config.JWTConfig,
	pwCfg config.PasswordConfig,
	logg *logger.Logger,
) (Service, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if shelterRepo == nil {
		return nil, fmt.Errorf("shelters repository is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		users:    userRepo,
		shelters: shelterRepo,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	role := input.Role
	if role == "" {
		role = enums.MemberRoleCustomer
	}
	if !role.IsValid() || role == enums.MemberRoleShelter {
		return nil, "", pkgerrors.Newf(pkgerrors.CodeValidation, "invalid role %q", input.Role)
	}
	diet := input.DietPreference
	if diet == "" {
		diet = enums.DietPreferenceAny
	}
	if !diet.IsValid() {
		return nil, "", pkgerrors.Newf(pkgerrors.CodeValidation, "invalid diet preference %q", input.DietPreference)
	}
	sugar := input.SugarPreference
	if sugar == "" {
		sugar = enums.SugarPreferenceAny
	}
	if !sugar.IsValid() {
		return nil, "", pkgerrors.Newf(pkgerrors.CodeValidation, "invalid sugar preference %q", input.SugarPreference)
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "hashing password")
	}

	user := &models.User{
		ID:              uuid.New(),
		Name:            strings.TrimSpace(input.Name),
		Email:           strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:    hash,
		Role:            role,
		DietPreference:  diet,
		SugarPreference: sugar,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "users_email_key") {
			return nil, "", pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating user")
	}

	token, err := s.startSession(ctx, pkgauth.AccessTokenPayload{UserID: user.ID, Role: user.Role}, user.ID.String())
	if err != nil {
		return nil, "", err
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "user registered")
	return user, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", invalidCredentials()
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, "", invalidCredentials()
	}

	token, err := s.startSession(ctx, pkgauth.AccessTokenPayload{UserID: user.ID, Role: user.Role}, user.ID.String())
	if err != nil {
		return nil, "", err
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "user logged in")
	return user, token, nil
}

func (s *service) Logout(ctx context.Context, tokenID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}
	if err := s.sessions.Revoke(ctx, tokenID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoking session")
	}
	return nil
}

func (s *service) ShelterLogin(ctx context.Context, email, password string) (*models.Shelter, string, error) {
	shelter, err := s.shelters.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", invalidCredentials()
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shelter")
	}

	ok, err := security.VerifyPassword(password, shelter.PasswordHash)
	if err != nil || !ok {
		return nil, "", invalidCredentials()
	}

	shelterID := shelter.ID
	token, err := s.startSession(ctx, pkgauth.AccessTokenPayload{
		UserID:    shelter.ID,
		Role:      enums.MemberRoleShelter,
		ShelterID: &shelterID,
	}, shelter.ID.String())
	if err != nil {
		return nil, "", err
	}

	s.logg.Info(s.logg.WithField(ctx, "shelter_id", shelter.ID.String()), "shelter logged in")
	return shelter, token, nil
}

func (s *service) startSession(ctx context.Context, payload pkgauth.AccessTokenPayload, subject string) (string, error) {
	payload.JTI = uuid.NewString()

	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), payload)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}
	if err := s.sessions.Create(ctx, payload.JTI, subject); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing session")
	}
	return token, nil
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
}
