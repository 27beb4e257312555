package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus360/portal-api/internal/models"
	appErrors "github.com/campus360/portal-api/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	SetRole(ctx context.Context, id string, role models.UserRole) error
	UpdateName(ctx context.Context, id, name string) error
	UpdateAttendanceGoal(ctx context.Context, id string, goal int) error
	ListFaculty(ctx context.Context) ([]models.UserSummary, error)
}

type tokenIssuer interface {
	IssueAccessToken(user *models.User) (string, time.Time, error)
}

// UserService handles profile and role management.
type UserService struct {
	repo      userRepository
	tokens    tokenIssuer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(repo userRepository, tokens tokenIssuer, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, tokens: tokens, validator: validate, logger: logger}
}

// SetRoleRequest selects the account role.
type SetRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// SetRoleResponse returns the updated user with a token carrying the
// new role.
type SetRoleResponse struct {
	User        models.UserInfo `json:"user"`
	AccessToken string          `json:"access_token"`
}

// UpdateProfileRequest updates profile fields.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required"`
}

// AttendanceGoalRequest sets the attendance target percentage.
type AttendanceGoalRequest struct {
	Goal int `json:"goal" validate:"gte=0,lte=100"`
}

// SetRole assigns the account role once. The role is immutable after
// selection so club and faculty permissions cannot be self-granted
// later.
func (s *UserService) SetRole(ctx context.Context, userID string, req SetRoleRequest) (*SetRoleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}

	role := models.UserRole(req.Role)
	if !role.Valid() || role == models.RoleUnset {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleUnset {
		return nil, appErrors.Clone(appErrors.ErrRoleAlreadySet, "role has already been selected")
	}

	if err := s.repo.SetRole(ctx, userID, role); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set role")
	}
	user.Role = role

	token, _, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue token")
	}

	return &SetRoleResponse{
		User: models.UserInfo{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
		AccessToken: token,
	}, nil
}

// UpdateProfile updates the user's display name.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateName(ctx, userID, req.Name); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
	user.Name = req.Name
	return user, nil
}

// AttendanceGoal returns the user's attendance target percentage.
func (s *UserService) AttendanceGoal(ctx context.Context, userID string) (int, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.AttendanceGoal, nil
}

// SetAttendanceGoal stores the attendance target percentage.
func (s *UserService) SetAttendanceGoal(ctx context.Context, userID string, req AttendanceGoalRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "goal must be between 0 and 100")
	}
	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.UpdateAttendanceGoal(ctx, userID, req.Goal); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update attendance goal")
	}
	return nil
}

// ListFaculty returns all faculty accounts, used when picking a club
// coordinator.
func (s *UserService) ListFaculty(ctx context.Context) ([]models.UserSummary, error) {
	faculty, err := s.repo.ListFaculty(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	return faculty, nil
}

func (s *UserService) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}
