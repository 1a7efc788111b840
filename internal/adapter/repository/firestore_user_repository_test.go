package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"campushub/internal/domain/entity"
)

func TestUserUpsertDataIsMapForm(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	user := &entity.User{
		ID:          "alice",
		Email:       "alice@campus.edu",
		DisplayName: "Alice",
		PhotoURL:    "https://example.com/alice.png",
		Role:        "student",
		LastLoginAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	data := userUpsertData(user)

	assert.Equal(t, "alice", data["id"])
	assert.Equal(t, "alice@campus.edu", data["email"])
	assert.Equal(t, "Alice", data["displayName"])
	assert.Equal(t, "student", data["role"])
	assert.Equal(t, "https://example.com/alice.png", data["photoURL"])
	assert.Equal(t, now, data["lastLoginAt"])
	assert.Equal(t, now, data["createdAt"])
	assert.Equal(t, now, data["updatedAt"])
}

func TestUserUpsertDataKeepsStoredPhotoWhenEmpty(t *testing.T) {
	user := &entity.User{
		ID:          "bob",
		Email:       "bob@campus.edu",
		DisplayName: "Bob",
	}

	data := userUpsertData(user)

	// Merging an empty photoURL would wipe one a previous login stored.
	_, present := data["photoURL"]
	assert.False(t, present)
}
