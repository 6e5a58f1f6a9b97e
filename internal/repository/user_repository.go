package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/fathima-sithara/chat-data/internal/apperr"
	"github.com/fathima-sithara/chat-data/internal/models"
	"github.com/fathima-sithara/chat-data/internal/store"
)

type UserRepository struct {
	store store.Store
	log   *zap.SugaredLogger
}

func NewUserRepository(st store.Store, log *zap.SugaredLogger) *UserRepository {
	return &UserRepository{store: st, log: log}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, apperr.InvalidArgumentf("user id must not be empty")
	}
	doc, err := r.store.Get(ctx, store.Users, id)
	if err != nil {
		return nil, apperr.FromStore(err, "get user %s", id)
	}
	var u models.User
	if err := store.Decode(doc, &u); err != nil {
		return nil, apperr.Storef(err, "decode user %s", id)
	}
	return &u, nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	docs, err := r.store.Scan(ctx, store.Users)
	if err != nil {
		return nil, apperr.FromStore(err, "scan users")
	}
	out := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		var u models.User
		if err := store.Decode(doc, &u); err != nil {
			return nil, apperr.Storef(err, "decode user")
		}
		out = append(out, u)
	}
	return out, nil
}

// Add writes the full user document. It does not check for pre-existence:
// last-write-wins, uniqueness is the caller's concern.
func (r *UserRepository) Add(ctx context.Context, user *models.User) error {
	if user == nil || user.ID == "" {
		return apperr.InvalidArgumentf("user and user.id must not be empty")
	}
	doc, err := store.Encode(user)
	if err != nil {
		return apperr.Storef(err, "encode user %s", user.ID)
	}
	if err := r.store.Set(ctx, store.Users, user.ID, doc); err != nil {
		return apperr.FromStore(err, "add user %s", user.ID)
	}
	r.log.Debugw("user added", "user_id", user.ID)
	return nil
}

// Update merges the non-nil patch fields into the stored document. The
// target must already exist.
func (r *UserRepository) Update(ctx context.Context, patch *models.UserPatch) error {
	if patch == nil || patch.ID == "" {
		return apperr.InvalidArgumentf("patch and patch.id must not be empty")
	}
	partial := bson.M{}
	if patch.DisplayName != nil {
		partial["display_name"] = *patch.DisplayName
	}
	if patch.Email != nil {
		partial["email"] = *patch.Email
	}
	if patch.ProfileImageURL != nil {
		partial["profile_image_url"] = *patch.ProfileImageURL
	}
	if patch.IsOnline != nil {
		partial["is_online"] = *patch.IsOnline
	}
	if patch.LastSeen != nil {
		partial["last_seen"] = *patch.LastSeen
	}
	if patch.UpdatedAt != nil {
		partial["updated_at"] = *patch.UpdatedAt
	} else {
		partial["updated_at"] = nowMillis()
	}
	if err := r.store.Patch(ctx, store.Users, patch.ID, partial); err != nil {
		return apperr.FromStore(err, "update user %s", patch.ID)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperr.InvalidArgumentf("user id must not be empty")
	}
	if err := r.store.Delete(ctx, store.Users, id); err != nil {
		return apperr.FromStore(err, "delete user %s", id)
	}
	r.log.Debugw("user deleted", "user_id", id)
	return nil
}

// GetByEmail looks a user up by exact, case-sensitive email match. When more
// than one user shares the email the first match in store order is returned
// and the inconsistency is logged; callers must not rely on which one.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, apperr.InvalidArgumentf("email must not be empty")
	}
	docs, err := r.store.QueryEqual(ctx, store.Users, "email", email)
	if err != nil {
		return nil, apperr.FromStore(err, "query users by email")
	}
	if len(docs) == 0 {
		return nil, apperr.NotFoundf("user with email %s", email)
	}
	if len(docs) > 1 {
		r.log.Warnw("multiple users share an email", "email", email, "count", len(docs))
	}
	var u models.User
	if err := store.Decode(docs[0], &u); err != nil {
		return nil, apperr.Storef(err, "decode user")
	}
	return &u, nil
}
