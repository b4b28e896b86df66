package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/irfan106/its-your-story/internal/docstore"
)

type postService struct {
	store  docstore.Store
	logger *slog.Logger
}

// NewService creates a new post service
func NewService(store docstore.Store, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &postService{
		store:  store,
		logger: logger,
	}
}

func (s *postService) Create(ctx context.Context, authorID string, req CreatePostRequest) (*Post, error) {
	if strings.TrimSpace(authorID) == "" {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Body) == "" {
		return nil, ErrInvalidPost
	}

	post := &Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Author:    strings.TrimSpace(req.Author),
		Title:     strings.TrimSpace(req.Title),
		Body:      req.Body,
		ImgURL:    strings.TrimSpace(req.ImgURL),
		Category:  strings.TrimSpace(req.Category),
		Tags:      normalizeTags(req.Tags),
		Timestamp: time.Now().UTC(),
	}

	if err := s.store.Set(ctx, Collection, post.ID, map[string]any{
		FieldAuthorID:  post.AuthorID,
		FieldAuthor:    post.Author,
		FieldTitle:     post.Title,
		FieldBody:      post.Body,
		FieldImgURL:    post.ImgURL,
		FieldCategory:  post.Category,
		FieldTags:      post.Tags,
		FieldTimestamp: post.Timestamp,
		FieldViews:     int64(0),
		FieldLikeCount: int64(0),
	}); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info("post created", "post", post.ID, "author", authorID)
	return post, nil
}

func (s *postService) Get(ctx context.Context, id string) (*Post, error) {
	doc, err := s.store.Get(ctx, Collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return FromDocument(doc), nil
}

// Update merges only the content fields, so engagement counters moving
// concurrently are never clobbered.
func (s *postService) Update(ctx context.Context, callerID, id string, req UpdatePostRequest) (*Post, error) {
	if strings.TrimSpace(callerID) == "" {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Body) == "" {
		return nil, ErrInvalidPost
	}

	doc, err := s.store.Get(ctx, Collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if docstore.StringField(doc.Fields, FieldAuthorID) != callerID {
		return nil, ErrNotAuthorized
	}

	if err := s.store.Merge(ctx, Collection, id, map[string]any{
		FieldTitle:    strings.TrimSpace(req.Title),
		FieldBody:     req.Body,
		FieldImgURL:   strings.TrimSpace(req.ImgURL),
		FieldCategory: strings.TrimSpace(req.Category),
		FieldTags:     normalizeTags(req.Tags),
	}); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return s.Get(ctx, id)
}

func (s *postService) Delete(ctx context.Context, callerID, id string) error {
	if strings.TrimSpace(callerID) == "" {
		return ErrUnauthenticated
	}

	doc, err := s.store.Get(ctx, Collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get post: %w", err)
	}
	if docstore.StringField(doc.Fields, FieldAuthorID) != callerID {
		return ErrNotAuthorized
	}

	if err := s.store.Delete(ctx, Collection, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.Info("post deleted", "post", id, "author", callerID)
	return nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.ToLower(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
