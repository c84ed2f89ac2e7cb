package repository

import (
	"os"
	"testing"

	"notably/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Note{},
		&models.Favorite{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-password",
		Avatar:   "https://img.pokemondb.net/sprites/sword-shield/icon/eevee.png",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createTestNote(t *testing.T, db *gorm.DB, authorID uint, content string) *models.Note {
	t.Helper()
	note := &models.Note{Content: content, AuthorID: authorID}
	if err := db.Create(note).Error; err != nil {
		t.Fatalf("create note: %v", err)
	}
	return note
}
