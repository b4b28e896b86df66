package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/irfan106/its-your-story/internal/docstore"
)

type userService struct {
	store  docstore.Store
	logger *slog.Logger
}

// NewService creates a new user service
func NewService(store docstore.Store, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		store:  store,
		logger: logger,
	}
}

// EnsureUser creates the user record on first sign-in, initializing both
// counters to zero. For an existing user it only refreshes the display name;
// counters belong to the follow service and are never touched here.
func (s *userService) EnsureUser(ctx context.Context, id, displayName string) (*User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidUserID
	}
	displayName = strings.TrimSpace(displayName)

	doc, err := s.store.Get(ctx, Collection, id)
	if err == nil {
		if displayName != "" && displayName != docstore.StringField(doc.Fields, FieldDisplayName) {
			if err := s.store.Merge(ctx, Collection, id, map[string]any{
				FieldDisplayName: displayName,
			}); err != nil {
				return nil, fmt.Errorf("failed to update display name: %w", err)
			}
			doc.Fields[FieldDisplayName] = displayName
		}
		return FromDocument(doc), nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user := &User{
		ID:          id,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}
	// Create-if-absent so a concurrent first sign-in can never reset
	// counters that a racing follow already moved.
	err = s.store.BatchCommit(ctx, []docstore.Write{{
		Kind:       docstore.WriteSet,
		Collection: Collection,
		ID:         id,
		Fields: map[string]any{
			FieldDisplayName: user.DisplayName,
			FieldFollowers:   int64(0),
			FieldFollowing:   int64(0),
			FieldCreatedAt:   user.CreatedAt,
		},
		Precondition: docstore.MustNotExist(),
	}})
	if errors.Is(err, docstore.ErrConflict) {
		// Lost the race to another sign-in; the record exists now
		doc, getErr := s.store.Get(ctx, Collection, id)
		if getErr != nil {
			return nil, fmt.Errorf("failed to look up user after create conflict: %w", getErr)
		}
		return FromDocument(doc), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", "user", id)
	return user, nil
}

// GetProfile retrieves a user by ID
func (s *userService) GetProfile(ctx context.Context, id string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidUserID
	}

	doc, err := s.store.Get(ctx, Collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return FromDocument(doc), nil
}
