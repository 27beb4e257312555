package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus360/portal-api/internal/models"
)

const userColumns = "id, name, email, password_hash, role, attendance_goal, reset_token, reset_token_expires_at, created_at, updated_at"

// UserRepository provides persistence for user accounts and their club
// follow relations.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.AttendanceGoal == 0 {
		user.AttendanceGoal = 75
	}
	query := `INSERT INTO users (id, name, email, password_hash, role, attendance_goal, created_at, updated_at)
VALUES (:id, :name, :email, :password_hash, :role, :attendance_goal, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1 LIMIT 1", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1 LIMIT 1", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetRole assigns the user's role.
func (r *UserRepository) SetRole(ctx context.Context, id string, role models.UserRole) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE users SET role = $1, updated_at = $2 WHERE id = $3", role, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("set user role: %w", err)
	}
	return nil
}

// UpdateName changes the user's display name.
func (r *UserRepository) UpdateName(ctx context.Context, id, name string) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE users SET name = $1, updated_at = $2 WHERE id = $3", name, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update user name: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3", passwordHash, updatedAt, id); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	return nil
}

// UpdateAttendanceGoal stores the user's attendance goal percentage.
func (r *UserRepository) UpdateAttendanceGoal(ctx context.Context, id string, goal int) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE users SET attendance_goal = $1, updated_at = $2 WHERE id = $3", goal, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update attendance goal: %w", err)
	}
	return nil
}

// ListFaculty returns all faculty accounts as display summaries.
func (r *UserRepository) ListFaculty(ctx context.Context) ([]models.UserSummary, error) {
	var faculty []models.UserSummary
	if err := r.db.SelectContext(ctx, &faculty,
		"SELECT id, name FROM users WHERE role = $1 ORDER BY name ASC", models.RoleFaculty); err != nil {
		return nil, fmt.Errorf("list faculty: %w", err)
	}
	return faculty, nil
}

// FollowedClubIDs returns the ids of clubs the user follows.
func (r *UserRepository) FollowedClubIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids,
		"SELECT club_id FROM club_followers WHERE user_id = $1", userID); err != nil {
		return nil, fmt.Errorf("list followed clubs: %w", err)
	}
	return ids, nil
}

// FollowClub adds a follow edge. Following an already-followed club is a
// no-op.
func (r *UserRepository) FollowClub(ctx context.Context, userID, clubID string) error {
	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO club_followers (user_id, club_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", userID, clubID); err != nil {
		return fmt.Errorf("follow club: %w", err)
	}
	return nil
}

// UnfollowClub removes a follow edge.
func (r *UserRepository) UnfollowClub(ctx context.Context, userID, clubID string) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM club_followers WHERE user_id = $1 AND club_id = $2", userID, clubID); err != nil {
		return fmt.Errorf("unfollow club: %w", err)
	}
	return nil
}

// ListFollowers returns the users following a club, sorted by name.
func (r *UserRepository) ListFollowers(ctx context.Context, clubID string) ([]models.UserSummary, error) {
	var followers []models.UserSummary
	query := `SELECT u.id, u.name, u.email FROM users u
JOIN club_followers f ON f.user_id = u.id
WHERE f.club_id = $1 ORDER BY u.name ASC`
	if err := r.db.SelectContext(ctx, &followers, query, clubID); err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return followers, nil
}

// CountFollowers returns the number of users following a club.
func (r *UserRepository) CountFollowers(ctx context.Context, clubID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM club_followers WHERE club_id = $1", clubID); err != nil {
		return 0, fmt.Errorf("count followers: %w", err)
	}
	return count, nil
}

// SetResetToken stores a password reset token and its expiry.
func (r *UserRepository) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE users SET reset_token = $1, reset_token_expires_at = $2, updated_at = $3 WHERE id = $4",
		token, expiresAt, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	return nil
}

// FindByResetToken returns the user holding an unexpired reset token.
func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE reset_token = $1 AND reset_token_expires_at > $2 LIMIT 1", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, token, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &user, nil
}

// ClearResetToken removes any stored reset token.
func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE users SET reset_token = NULL, reset_token_expires_at = NULL, updated_at = $1 WHERE id = $2",
		time.Now().UTC(), id); err != nil {
		return fmt.Errorf("clear reset token: %w", err)
	}
	return nil
}

// CreateRefreshToken persists a refresh token.
func (r *UserRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at, revoked, ip_address, user_agent)
VALUES (:id, :user_id, :token, :expires_at, :created_at, :revoked, :ip_address, :user_agent)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken returns the stored refresh token row.
func (r *UserRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var stored models.RefreshToken
	query := `SELECT id, user_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent
FROM refresh_tokens WHERE token = $1 LIMIT 1`
	if err := r.db.GetContext(ctx, &stored, query, token); err != nil {
		return nil, err
	}
	return &stored, nil
}

// RevokeRefreshToken marks a refresh token revoked.
func (r *UserRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $1 WHERE id = $2", revokedAt, id); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeUserRefreshTokens revokes every live refresh token for a user.
func (r *UserRepository) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $1 WHERE user_id = $2 AND NOT revoked",
		time.Now().UTC(), userID); err != nil {
		return fmt.Errorf("revoke user refresh tokens: %w", err)
	}
	return nil
}
