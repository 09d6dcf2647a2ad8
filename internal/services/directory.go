package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gigline/gigline/internal/models"
	"github.com/gigline/gigline/internal/repository"
	"github.com/gigline/gigline/pkg/cache"
	"github.com/gigline/gigline/pkg/logger"
	"github.com/gigline/gigline/pkg/queue"
)

// DirectoryService resolves opaque user ids to role-tagged profile
// summaries. Profiles originate from the external identity provider and
// are synced in at session start; reads are served from redis when warm.
type DirectoryService struct {
	profileRepo *repository.ProfileRepository
	cache       *cache.RedisClient
	producer    EventPublisher
	profileTTL  time.Duration
	logger      *logger.Logger
}

func NewDirectoryService(profileRepo *repository.ProfileRepository, cache *cache.RedisClient, producer EventPublisher, profileTTL time.Duration, logger *logger.Logger) *DirectoryService {
	if profileTTL <= 0 {
		profileTTL = 5 * time.Minute
	}
	return &DirectoryService{
		profileRepo: profileRepo,
		cache:       cache,
		producer:    producer,
		profileTTL:  profileTTL,
		logger:      logger,
	}
}

type SyncProfileRequest struct {
	ID        string      `json:"id" binding:"required"`
	Role      models.Role `json:"role" binding:"required"`
	Name      string      `json:"name" binding:"required"`
	AvatarURL string      `json:"avatar_url"`
}

func profileCacheKey(id string) string {
	return "profile:" + id
}

// Sync upserts the identity-provider projection for one user.
func (s *DirectoryService) Sync(ctx context.Context, req *SyncProfileRequest) (*models.Profile, error) {
	switch req.Role {
	case models.RoleDJ, models.RoleBusiness, models.RoleListener:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, req.Role)
	}
	if req.ID == "" || req.Name == "" {
		return nil, fmt.Errorf("%w: id and name are required", ErrValidation)
	}

	profile := &models.Profile{
		ID:        req.ID,
		Role:      req.Role,
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, profileCacheKey(req.ID)); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate profile cache")
		}
	}

	publishEvent(ctx, s.producer, s.logger, req.ID, queue.EventProfileSynced, map[string]string{
		"profile_id": req.ID,
		"role":       string(req.Role),
	})

	return s.Get(ctx, req.ID)
}

// Get returns the profile summary, consulting the cache first. A stale
// follower count for up to the cache TTL is acceptable; no caller
// depends on read-after-write across entities.
func (s *DirectoryService) Get(ctx context.Context, id string) (*models.Profile, error) {
	if s.cache != nil {
		var cached models.Profile
		if err := s.cache.GetJSON(ctx, profileCacheKey(id), &cached); err == nil {
			return &cached, nil
		}
	}

	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile %s", ErrNotFound, id)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, profileCacheKey(id), profile, s.profileTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache profile")
		}
	}

	return profile, nil
}

func (s *DirectoryService) ListByRole(ctx context.Context, role models.Role, offset, limit int) ([]*models.Profile, error) {
	switch role {
	case models.RoleDJ, models.RoleBusiness, models.RoleListener:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	return s.profileRepo.ListByRole(ctx, role, offset, limit)
}

// invalidate drops the cached copy after a follower-count change.
func (s *DirectoryService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, profileCacheKey(id)); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate profile cache")
	}
}
