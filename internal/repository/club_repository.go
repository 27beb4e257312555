package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus360/portal-api/internal/models"
)

const clubColumns = `c.id, c.name, c.description, c.category, c.logo_url, c.member_count,
c.representative_id, c.faculty_coordinator_id, c.created_at,
coord.name AS coordinator_name, rep.name AS representative_name`

const clubJoins = `FROM clubs c
LEFT JOIN users coord ON coord.id = c.faculty_coordinator_id
LEFT JOIN users rep ON rep.id = c.representative_id`

// ClubRepository provides persistence for clubs and their team rosters.
type ClubRepository struct {
	db *sqlx.DB
}

// NewClubRepository creates the repository.
func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

// Create inserts a club and its team members in one transaction.
func (r *ClubRepository) Create(ctx context.Context, club *models.Club) error {
	if club.ID == "" {
		club.ID = uuid.NewString()
	}
	if club.CreatedAt.IsZero() {
		club.CreatedAt = time.Now().UTC()
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create club: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := `INSERT INTO clubs (id, name, description, category, logo_url, member_count, representative_id, faculty_coordinator_id, created_at)
VALUES (:id, :name, :description, :category, :logo_url, :member_count, :representative_id, :faculty_coordinator_id, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, club); err != nil {
		return fmt.Errorf("create club: %w", err)
	}
	if err := replaceTeam(ctx, tx, club.ID, club.Team); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create club: %w", err)
	}
	return nil
}

// List returns all clubs ordered by name, coordinator resolved.
func (r *ClubRepository) List(ctx context.Context) ([]models.Club, error) {
	var clubs []models.Club
	query := fmt.Sprintf("SELECT %s %s ORDER BY c.name ASC", clubColumns, clubJoins)
	if err := r.db.SelectContext(ctx, &clubs, query); err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	return clubs, nil
}

// GetByID returns a club with its team roster.
func (r *ClubRepository) GetByID(ctx context.Context, id string) (*models.Club, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE c.id = $1", clubColumns, clubJoins)
	var club models.Club
	if err := r.db.GetContext(ctx, &club, query, id); err != nil {
		return nil, err
	}
	if err := r.loadTeam(ctx, &club); err != nil {
		return nil, err
	}
	return &club, nil
}

// FindByName returns a club by its unique name.
func (r *ClubRepository) FindByName(ctx context.Context, name string) (*models.Club, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE c.name = $1", clubColumns, clubJoins)
	var club models.Club
	if err := r.db.GetContext(ctx, &club, query, name); err != nil {
		return nil, err
	}
	return &club, nil
}

// FindByRepresentative returns the club managed by the given user, or nil
// when the user manages none.
func (r *ClubRepository) FindByRepresentative(ctx context.Context, userID string) (*models.Club, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE c.representative_id = $1", clubColumns, clubJoins)
	var club models.Club
	if err := r.db.GetContext(ctx, &club, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find represented club: %w", err)
	}
	if err := r.loadTeam(ctx, &club); err != nil {
		return nil, err
	}
	return &club, nil
}

// ListByCoordinator returns the clubs a faculty member coordinates.
func (r *ClubRepository) ListByCoordinator(ctx context.Context, facultyID string) ([]models.Club, error) {
	var clubs []models.Club
	query := fmt.Sprintf("SELECT %s %s WHERE c.faculty_coordinator_id = $1 ORDER BY c.name ASC", clubColumns, clubJoins)
	if err := r.db.SelectContext(ctx, &clubs, query, facultyID); err != nil {
		return nil, fmt.Errorf("list coordinated clubs: %w", err)
	}
	return clubs, nil
}

// CoordinatedClubIDs returns just the ids of clubs the faculty member
// coordinates.
func (r *ClubRepository) CoordinatedClubIDs(ctx context.Context, facultyID string) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids,
		"SELECT id FROM clubs WHERE faculty_coordinator_id = $1", facultyID); err != nil {
		return nil, fmt.Errorf("list coordinated club ids: %w", err)
	}
	return ids, nil
}

// Update modifies a club's editable fields and replaces its team roster.
func (r *ClubRepository) Update(ctx context.Context, club *models.Club) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update club: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := `UPDATE clubs SET name = :name, description = :description, category = :category,
logo_url = :logo_url, member_count = :member_count, faculty_coordinator_id = :faculty_coordinator_id
WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, club); err != nil {
		return fmt.Errorf("update club: %w", err)
	}
	if err := replaceTeam(ctx, tx, club.ID, club.Team); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update club: %w", err)
	}
	return nil
}

// Delete removes a club and everything hanging off it: announcements,
// events, follow edges and the team roster.
func (r *ClubRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete club: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range []string{
		"DELETE FROM announcements WHERE club_id = $1",
		"DELETE FROM events WHERE club_id = $1",
		"DELETE FROM club_followers WHERE club_id = $1",
		"DELETE FROM club_team_members WHERE club_id = $1",
		"DELETE FROM clubs WHERE id = $1",
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("delete club: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete club: %w", err)
	}
	return nil
}

func (r *ClubRepository) loadTeam(ctx context.Context, club *models.Club) error {
	var team []models.ClubTeamMember
	if err := r.db.SelectContext(ctx, &team,
		"SELECT club_id, name, role FROM club_team_members WHERE club_id = $1", club.ID); err != nil {
		return fmt.Errorf("load club team: %w", err)
	}
	club.Team = team
	return nil
}

func replaceTeam(ctx context.Context, tx *sqlx.Tx, clubID string, team []models.ClubTeamMember) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM club_team_members WHERE club_id = $1", clubID); err != nil {
		return fmt.Errorf("clear club team: %w", err)
	}
	for _, member := range team {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO club_team_members (club_id, name, role) VALUES ($1, $2, $3)",
			clubID, member.Name, member.Role); err != nil {
			return fmt.Errorf("insert club team member: %w", err)
		}
	}
	return nil
}
