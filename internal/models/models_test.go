package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserPassword(t *testing.T) {
	u := &User{Email: "a@example.com"}
	require.NoError(t, u.HashPassword("correct horse"))

	assert.NotEqual(t, "correct horse", u.Password)
	assert.True(t, u.CheckPassword("correct horse"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret", string(hash)))
	assert.False(t, CheckPasswordHash("s3cret", ""))
	assert.False(t, CheckPasswordHash("s3cret", "not-a-hash"))
}

func TestBeforeCreateDefaults(t *testing.T) {
	a := &Artwork{Title: "Dusk"}
	require.NoError(t, a.BeforeCreate(nil))
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, StatusAvailable, a.Status)

	s := &StatusCheck{ClientName: "probe"}
	require.NoError(t, s.BeforeCreate(nil))
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.Timestamp.IsZero())
}

func TestValidArtworkStatus(t *testing.T) {
	assert.True(t, ValidArtworkStatus("sold"))
	assert.False(t, ValidArtworkStatus("SOLD"))
	assert.False(t, ValidArtworkStatus(""))
}
