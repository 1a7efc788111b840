package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campushub/internal/domain/entity"
	"campushub/internal/domain/repository"
	"campushub/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

// Upsert merges the profile into the user document, creating it on
// first login. CreatedAt is only written when the document is new.
func (r *firestoreUserRepository) Upsert(ctx context.Context, user *entity.User) error {
	now := time.Now()
	user.LastLoginAt = now
	user.UpdatedAt = now

	existing, err := r.GetByID(ctx, user.ID)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return err
	}

	if existing == nil {
		user.CreatedAt = now
		if user.Role == "" {
			user.Role = "student"
		}
	} else {
		user.CreatedAt = existing.CreatedAt
		user.Role = existing.Role
	}

	_, err = r.client.Collection("users").Doc(user.ID).Set(ctx, userUpsertData(user), firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to upsert user", err)
	}

	return nil
}

// userUpsertData flattens the user into the map form MergeAll requires;
// passing the struct itself fails client-side before any RPC.
func userUpsertData(user *entity.User) map[string]interface{} {
	data := map[string]interface{}{
		"id":          user.ID,
		"email":       user.Email,
		"displayName": user.DisplayName,
		"role":        user.Role,
		"lastLoginAt": user.LastLoginAt,
		"createdAt":   user.CreatedAt,
		"updatedAt":   user.UpdatedAt,
	}
	// An empty photo URL must not wipe one a previous login stored.
	if user.PhotoURL != "" {
		data["photoURL"] = user.PhotoURL
	}
	return data
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User not found", nil)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}

	return &user, nil
}
