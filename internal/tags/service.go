package tags

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dhukuti/internal/shared/constants"
	"dhukuti/internal/shared/session"
	"dhukuti/pkg/cache"
)

type Service interface {
	CreateTag(ctx context.Context, s session.Session, req CreateTagRequest) (*TagResponse, error)
	UpdateTag(ctx context.Context, id uuid.UUID, req UpdateTagRequest) (*TagResponse, error)
	GetTagBySlug(ctx context.Context, slug string) (*TagResponse, error)
	GetActiveTags(ctx context.Context) ([]TagResponse, error)

	// Used by the events service.
	AttachToEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, names []string) ([]TagResponse, error)
	GetTagsByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID][]TagResponse, error)
}

type service struct {
	repo  Repository
	cache cache.Service
}

func NewService(repo Repository, cacheService cache.Service) Service {
	if cacheService == nil {
		cacheService = cache.NewService(nil)
	}
	return &service{repo: repo, cache: cacheService}
}

func toResponses(tags []Tag) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, tags[i].ToResponse())
	}
	return out
}

func (s *service) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, constants.CACHE_KEY_TAGS_ACTIVE)
}

func (s *service) CreateTag(ctx context.Context, sess session.Session, req CreateTagRequest) (*TagResponse, error) {
	name := strings.TrimSpace(req.Name)
	slug := GenerateSlug(name)
	if slug == "" {
		return nil, ErrInvalidName
	}

	color := req.Color
	if !IsValidHexColor(color) {
		color = DefaultColor
	}

	createdBy := sess.UserID
	tag := &Tag{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
		Color:       color,
		IsActive:    true,
		CreatedBy:   &createdBy,
	}
	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := tag.ToResponse()
	return &resp, nil
}

func (s *service) UpdateTag(ctx context.Context, id uuid.UUID, req UpdateTagRequest) (*TagResponse, error) {
	updates := map[string]interface{}{}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Color != nil {
		if !IsValidHexColor(*req.Color) {
			return nil, fmt.Errorf("invalid color %q", *req.Color)
		}
		updates["color"] = *req.Color
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	tag, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := tag.ToResponse()
	return &resp, nil
}

func (s *service) GetTagBySlug(ctx context.Context, slug string) (*TagResponse, error) {
	tag, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := tag.ToResponse()
	return &resp, nil
}

func (s *service) GetActiveTags(ctx context.Context) ([]TagResponse, error) {
	var tags []TagResponse
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_TAGS_ACTIVE, constants.TTL_TAGS_ACTIVE,
		func() (interface{}, error) {
			active, err := s.repo.GetActive(ctx)
			if err != nil {
				return nil, err
			}
			return toResponses(active), nil
		}, &tags)
	return tags, err
}

func (s *service) AttachToEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, names []string) ([]TagResponse, error) {
	tags, err := s.repo.AttachToEvent(ctx, tx, eventID, names)
	if err != nil {
		return nil, fmt.Errorf("failed to attach tags: %w", err)
	}
	if len(tags) > 0 {
		s.invalidate(ctx)
	}
	return toResponses(tags), nil
}

func (s *service) GetTagsByEventIDs(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID][]TagResponse, error) {
	byEvent, err := s.repo.GetByEventIDs(ctx, eventIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID][]TagResponse, len(byEvent))
	for id, tags := range byEvent {
		out[id] = toResponses(tags)
	}
	return out, nil
}
