// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"notably/internal/auth"
	"notably/internal/avatar"
	"notably/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumNotes    int
	ShouldClean bool
}

// DefaultPassword is the shared password for seeded accounts, so developers
// can sign in as any of them.
const DefaultPassword = "Notably-dev-pw1!"

// Seed populates the database with test data.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d notes...", opts.NumUsers, opts.NumNotes)

	if opts.ShouldClean {
		if err := ClearAll(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	notes, err := createNotes(db, users, opts.NumNotes)
	if err != nil {
		return fmt.Errorf("failed to create notes: %w", err)
	}
	log.Printf("created %d notes", len(notes))

	favorites, err := createFavorites(db, users, notes)
	if err != nil {
		return fmt.Errorf("failed to create favorites: %w", err)
	}
	log.Printf("created %d favorites", favorites)

	return nil
}

// ClearAll removes every seeded row. Favorites go first so note and user rows
// are never referenced when they disappear.
func ClearAll(db *gorm.DB) error {
	for _, stmt := range []string{
		"DELETE FROM favorites",
		"DELETE FROM notes",
		"DELETE FROM users",
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, count int) ([]*models.User, error) {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	pick := avatar.NewPicker(r)

	hashed, err := auth.HashPassword(DefaultPassword, bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Email:    gofakeit.Email(),
			Password: hashed,
			Avatar:   pick(),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createNotes(db *gorm.DB, users []*models.User, count int) ([]*models.Note, error) {
	if len(users) == 0 {
		return nil, nil
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	notes := make([]*models.Note, 0, count)
	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		note := &models.Note{
			Content:  gofakeit.Paragraph(1, 3, 8, "\n"),
			AuthorID: author.ID,
		}
		// spread creation times over the last 30 days
		note.CreatedAt = time.Now().Add(-time.Duration(r.Intn(30*24)) * time.Hour)
		if err := db.Create(note).Error; err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func createFavorites(db *gorm.DB, users []*models.User, notes []*models.Note) (int, error) {
	if len(users) == 0 || len(notes) == 0 {
		return 0, nil
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	created := 0
	for _, note := range notes {
		// roughly a third of the user base favorites each note
		for _, user := range users {
			if r.Intn(3) != 0 {
				continue
			}
			fav := models.Favorite{NoteID: note.ID, UserID: user.ID}
			if err := db.Create(&fav).Error; err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
