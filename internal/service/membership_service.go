package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campus360/portal-api/internal/models"
)

type membershipUserRepository interface {
	FollowedClubIDs(ctx context.Context, userID string) ([]string, error)
}

type membershipClubRepository interface {
	CoordinatedClubIDs(ctx context.Context, facultyID string) ([]string, error)
	FindByRepresentative(ctx context.Context, userID string) (*models.Club, error)
}

// MembershipService resolves which clubs a user cares about: followed
// clubs for students, coordinated clubs for faculty, the one managed
// club for representatives. Everyone else gets an empty set.
type MembershipService struct {
	users  membershipUserRepository
	clubs  membershipClubRepository
	logger *zap.Logger
}

// NewMembershipService constructs the service.
func NewMembershipService(users membershipUserRepository, clubs membershipClubRepository, logger *zap.Logger) *MembershipService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MembershipService{users: users, clubs: clubs, logger: logger}
}

// RelevantClubs returns the club ids relevant to the user for their
// role. Lookup failures propagate so callers composing a response can
// fail the whole request; callers that can tolerate a degraded answer
// may treat an error as an empty set.
func (s *MembershipService) RelevantClubs(ctx context.Context, userID string, role models.UserRole) ([]string, error) {
	switch role {
	case models.RoleStudent:
		ids, err := s.users.FollowedClubIDs(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("resolve followed clubs: %w", err)
		}
		return normalizeIDs(ids), nil
	case models.RoleFaculty:
		ids, err := s.clubs.CoordinatedClubIDs(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("resolve coordinated clubs: %w", err)
		}
		return normalizeIDs(ids), nil
	case models.RoleClub:
		club, err := s.clubs.FindByRepresentative(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("resolve represented club: %w", err)
		}
		if club == nil {
			return []string{}, nil
		}
		return []string{club.ID}, nil
	default:
		return []string{}, nil
	}
}

func normalizeIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
