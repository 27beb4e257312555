// Command seed loads a small demo dataset into the portal database:
// a few accounts for each role, one club with a follower, and sample
// notices, announcements and events. Intended for local development
// against a fresh database; running it twice will fail on the unique
// email and club name constraints.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/campus360/portal-api/internal/models"
	"github.com/campus360/portal-api/internal/repository"
	"github.com/campus360/portal-api/pkg/config"
	"github.com/campus360/portal-api/pkg/database"
)

func main() {
	var password string
	flag.StringVar(&password, "password", "changeme123", "password assigned to every seeded account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := database.Migrate(cfg.Database); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := repository.NewUserRepository(db)
	clubs := repository.NewClubRepository(db)
	notices := repository.NewNoticeRepository(db)
	announcements := repository.NewAnnouncementRepository(db)
	events := repository.NewEventRepository(db)

	student := &models.User{Name: "Asha Verma", Email: "asha@campus.edu", PasswordHash: string(hash), Role: models.RoleStudent}
	faculty := &models.User{Name: "Prof. Rao", Email: "rao@campus.edu", PasswordHash: string(hash), Role: models.RoleFaculty}
	rep := &models.User{Name: "Coding Club", Email: "coding@campus.edu", PasswordHash: string(hash), Role: models.RoleClub}
	for _, u := range []*models.User{student, faculty, rep} {
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("failed to create user %s: %v", u.Email, err)
		}
	}

	club := &models.Club{
		Name:                 "Coding Club",
		Description:          "Weekly hack nights and workshops.",
		Category:             models.ClubCategoryTechnical,
		RepresentativeID:     rep.ID,
		FacultyCoordinatorID: &faculty.ID,
		MemberCount:          12,
	}
	if err := clubs.Create(ctx, club); err != nil {
		log.Fatalf("failed to create club: %v", err)
	}
	if err := users.FollowClub(ctx, student.ID, club.ID); err != nil {
		log.Fatalf("failed to follow club: %v", err)
	}

	if err := notices.Create(ctx, &models.Notice{
		Title:    "Library hours extended",
		Content:  "The library stays open until midnight during exam week.",
		AuthorID: faculty.ID,
		Category: models.NoticeCategoryAcademic,
		Audience: "All",
		IsPinned: true,
	}); err != nil {
		log.Fatalf("failed to create notice: %v", err)
	}

	if err := announcements.Create(ctx, &models.Announcement{
		ClubID:   club.ID,
		AuthorID: rep.ID,
		Title:    "New member onboarding",
		Content:  "Join us Thursday to get your environment set up.",
	}); err != nil {
		log.Fatalf("failed to create announcement: %v", err)
	}

	if err := events.Create(ctx, &models.Event{
		ClubID:      club.ID,
		AuthorID:    rep.ID,
		Title:       "Hack Night",
		Description: "Bring a laptop, pizza provided.",
		Date:        time.Now().AddDate(0, 0, 7),
		Location:    "Lab 2",
	}); err != nil {
		log.Fatalf("failed to create event: %v", err)
	}

	log.Printf("seeded 3 users, 1 club, 1 notice, 1 announcement, 1 event (password %q)", password)
}
