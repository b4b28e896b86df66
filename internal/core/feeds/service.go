// Package feeds serves ordered, filtered pages over posts. Two pagination
// modes coexist on purpose: offset paging for jump-to-page UIs, cursor paging
// for the endpoints that must iterate without duplicates or gaps.
package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/irfan106/its-your-story/internal/core/posts"
	"github.com/irfan106/its-your-story/internal/docstore"
	"github.com/irfan106/its-your-story/internal/monitoring"
)

// tagScanPageSize is the batch size for the tag union scan
const tagScanPageSize = 100

type feedService struct {
	store  docstore.Store
	logger *slog.Logger
}

// NewService creates a new feed query service
func NewService(store docstore.Store, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &feedService{
		store:  store,
		logger: logger,
	}
}

// ListPosts serves one absolute page. The count query runs over the same
// filter so totalPages matches what paging through would actually yield.
func (s *feedService) ListPosts(ctx context.Context, req ListPostsRequest) (*ListPostsResponse, error) {
	timer := prometheus.NewTimer(monitoring.FeedQueryDuration.WithLabelValues("listPosts"))
	defer timer.ObserveDuration()

	if req.Page <= 0 {
		req.Page = 1
	}
	pageSize, err := normalizePageSize(req.PageSize)
	if err != nil {
		return nil, err
	}
	orderBy, direction, numeric, err := normalizeSort(req.Sort)
	if err != nil {
		return nil, err
	}
	filters := buildFilters(req.Filter)

	page, err := s.store.Query(ctx, posts.Collection, docstore.Query{
		Filters:      filters,
		OrderBy:      orderBy,
		Direction:    direction,
		OrderNumeric: numeric,
		Offset:       (req.Page - 1) * pageSize,
		Limit:        pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	total, err := s.store.Count(ctx, posts.Collection, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &ListPostsResponse{
		Items:       hydrate(page.Documents),
		CurrentPage: req.Page,
		TotalPages:  totalPages,
	}, nil
}

// ListPostsByCursor serves the next forward slice after the cursor position.
func (s *feedService) ListPostsByCursor(ctx context.Context, req ListByCursorRequest) (*ListByCursorResponse, error) {
	timer := prometheus.NewTimer(monitoring.FeedQueryDuration.WithLabelValues("listPostsByCursor"))
	defer timer.ObserveDuration()

	pageSize, err := normalizePageSize(req.PageSize)
	if err != nil {
		return nil, err
	}
	orderBy, direction, numeric, err := normalizeSort(req.Sort)
	if err != nil {
		return nil, err
	}

	cursor, err := docstore.DecodeCursor(req.Cursor)
	if err != nil {
		return nil, err
	}

	page, err := s.store.Query(ctx, posts.Collection, docstore.Query{
		Filters:      buildFilters(req.Filter),
		OrderBy:      orderBy,
		Direction:    direction,
		OrderNumeric: numeric,
		Cursor:       cursor,
		Limit:        pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by cursor: %w", err)
	}

	return &ListByCursorResponse{
		Items:      hydrate(page.Documents),
		NextCursor: page.NextCursor,
	}, nil
}

// Trending returns the top posts by view count
func (s *feedService) Trending(ctx context.Context, limit int) ([]*posts.Post, error) {
	timer := prometheus.NewTimer(monitoring.FeedQueryDuration.WithLabelValues("trending"))
	defer timer.ObserveDuration()

	if limit <= 0 {
		limit = 10
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	page, err := s.store.Query(ctx, posts.Collection, docstore.Query{
		OrderBy:      posts.FieldViews,
		Direction:    docstore.Descending,
		OrderNumeric: true,
		Limit:        limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list trending posts: %w", err)
	}
	return hydrate(page.Documents), nil
}

// Tags returns the distinct tag union across all posts, sorted.
// Scans the collection in cursor batches; fine at blog scale, revisit with a
// tag index collection if post volume ever makes this hot.
func (s *feedService) Tags(ctx context.Context) ([]string, error) {
	timer := prometheus.NewTimer(monitoring.FeedQueryDuration.WithLabelValues("tags"))
	defer timer.ObserveDuration()

	seen := make(map[string]struct{})
	var cursor *docstore.Cursor

	for {
		page, err := s.store.Query(ctx, posts.Collection, docstore.Query{
			OrderBy:   posts.FieldTimestamp,
			Direction: docstore.Descending,
			Cursor:    cursor,
			Limit:     tagScanPageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan posts for tags: %w", err)
		}

		for _, doc := range page.Documents {
			for _, tag := range docstore.StringsField(doc.Fields, posts.FieldTags) {
				seen[tag] = struct{}{}
			}
		}

		if page.NextCursor == "" {
			break
		}
		cursor, err = docstore.DecodeCursor(page.NextCursor)
		if err != nil {
			return nil, err
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize == 0 {
		return defaultPageSize, nil
	}
	if pageSize < 0 {
		return 0, NewValidationError("pageSize", "pageSize must be at least 1")
	}
	if pageSize > maxPageSize {
		return 0, NewValidationError("pageSize", fmt.Sprintf("pageSize must not exceed %d", maxPageSize))
	}
	return pageSize, nil
}

// normalizeSort validates the sort spec and maps it onto the store query.
// Dynamic sort input goes through this whitelist, never straight to the store.
func normalizeSort(s Sort) (orderBy string, direction docstore.Direction, numeric bool, err error) {
	switch s.Field {
	case "", SortTimestamp:
		orderBy = posts.FieldTimestamp
	case SortViews:
		orderBy = posts.FieldViews
		numeric = true
	default:
		return "", "", false, NewValidationError("sort", "sort field must be one of: timestamp, views")
	}

	switch s.Direction {
	case "", DirectionDesc:
		direction = docstore.Descending
	case DirectionAsc:
		direction = docstore.Ascending
	default:
		return "", "", false, NewValidationError("sort", "sort direction must be one of: asc, desc")
	}
	return orderBy, direction, numeric, nil
}

func buildFilters(f Filter) []docstore.Filter {
	var filters []docstore.Filter
	if f.Category != "" {
		filters = append(filters, docstore.Filter{Field: posts.FieldCategory, Value: f.Category})
	}
	if f.AuthorID != "" {
		filters = append(filters, docstore.Filter{Field: posts.FieldAuthorID, Value: f.AuthorID})
	}
	if f.TitlePrefix != "" {
		filters = append(filters, docstore.Filter{Field: posts.FieldTitle, Value: f.TitlePrefix, Prefix: true})
	}
	return filters
}

func hydrate(docs []docstore.Document) []*posts.Post {
	items := make([]*posts.Post, 0, len(docs))
	for i := range docs {
		items = append(items, posts.FromDocument(&docs[i]))
	}
	return items
}
