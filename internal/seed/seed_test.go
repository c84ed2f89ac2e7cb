package seed

import (
	"testing"

	"notably/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Note{}, &models.Favorite{}))
	return db
}

func TestSeed(t *testing.T) {
	db := setupSeedTestDB(t)

	err := Seed(db, Options{NumUsers: 5, NumNotes: 12, ShouldClean: false})
	require.NoError(t, err)

	var userCount, noteCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Note{}).Count(&noteCount).Error)
	assert.Equal(t, int64(5), userCount)
	assert.Equal(t, int64(12), noteCount)

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	for _, u := range users {
		assert.NotEmpty(t, u.Username)
		assert.NotEmpty(t, u.Email)
		assert.Contains(t, u.Avatar, "pokemondb.net")
		assert.NotEqual(t, DefaultPassword, u.Password, "password must be stored hashed")
	}

	// Every favorite references a live note and user.
	var favorites []models.Favorite
	require.NoError(t, db.Find(&favorites).Error)
	for _, f := range favorites {
		var note models.Note
		assert.NoError(t, db.First(&note, f.NoteID).Error)
		var user models.User
		assert.NoError(t, db.First(&user, f.UserID).Error)
	}
}

func TestSeedClean(t *testing.T) {
	db := setupSeedTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 2, NumNotes: 3}))
	require.NoError(t, Seed(db, Options{NumUsers: 4, NumNotes: 6, ShouldClean: true}))

	var userCount, noteCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Note{}).Count(&noteCount).Error)
	assert.Equal(t, int64(4), userCount)
	assert.Equal(t, int64(6), noteCount)
}
