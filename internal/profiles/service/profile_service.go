package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/pinmark/pinmark-backend/internal/apperr"
	"github.com/pinmark/pinmark-backend/internal/profiles/domain"
)

const (
	profileCacheSize = 2048
	profileCacheTTL  = 30 * time.Second
	searchLimit      = 10
)

// ProfileStore is the persistence the service needs.
type ProfileStore interface {
	Ensure(ctx context.Context, userID, email string) (*domain.Profile, error)
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	GetByUsername(ctx context.Context, username string) (*domain.Profile, error)
	GetMany(ctx context.Context, userIDs []string) ([]domain.Profile, error)
	UpdateUsername(ctx context.Context, userID, username string) (*domain.Profile, error)
	SearchByUsername(ctx context.Context, prefix string, limit int) ([]domain.Profile, error)
	AdjustStorage(ctx context.Context, userID string, delta int64) (int64, error)
	SetPlan(ctx context.Context, userID, plan, customerID string) error
}

// ProfileService handles profile lookups, usernames and storage accounting
type ProfileService struct {
	repo   ProfileStore
	limits domain.PlanLimits
	cache  *expirable.LRU[string, domain.Profile]
}

func NewProfileService(repo ProfileStore, limits domain.PlanLimits) *ProfileService {
	return &ProfileService{
		repo:   repo,
		limits: limits,
		cache:  expirable.NewLRU[string, domain.Profile](profileCacheSize, nil, profileCacheTTL),
	}
}

// EnsureProfile makes sure a row exists for userID. Cached profiles skip the write.
func (s *ProfileService) EnsureProfile(ctx context.Context, userID, email string) (*domain.Profile, error) {
	if p, ok := s.cache.Get(userID); ok && (email == "" || p.Email == email) {
		return &p, nil
	}
	p, err := s.repo.Ensure(ctx, userID, email)
	if err != nil {
		return nil, err
	}
	s.cache.Add(userID, *p)
	return p, nil
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	if p, ok := s.cache.Get(userID); ok {
		return &p, nil
	}
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Add(userID, *p)
	return p, nil
}

func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	return s.repo.GetByUsername(ctx, normalizeUsername(username))
}

// GetMany returns profiles keyed by user id.
func (s *ProfileService) GetMany(ctx context.Context, userIDs []string) (map[string]domain.Profile, error) {
	out := make(map[string]domain.Profile, len(userIDs))
	missing := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if p, ok := s.cache.Get(id); ok {
			out[id] = p
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	found, err := s.repo.GetMany(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, p := range found {
		s.cache.Add(p.UserID, p)
		out[p.UserID] = p
	}
	return out, nil
}

func (s *ProfileService) UpdateUsername(ctx context.Context, userID, username string) (*domain.Profile, error) {
	username = normalizeUsername(username)
	if !domain.ValidUsername(username) {
		return nil, fmt.Errorf("username must be 3-30 characters of a-z, 0-9, '_', '.', '-': %w", apperr.ErrInvalidInput)
	}
	p, err := s.repo.UpdateUsername(ctx, userID, username)
	if err != nil {
		return nil, err
	}
	s.cache.Add(userID, *p)
	return p, nil
}

func (s *ProfileService) SearchByUsername(ctx context.Context, prefix string) ([]domain.Profile, error) {
	prefix = normalizeUsername(prefix)
	if prefix == "" {
		return []domain.Profile{}, nil
	}
	return s.repo.SearchByUsername(ctx, prefix, searchLimit)
}

// AdjustStorage changes the user's recorded usage by delta bytes.
func (s *ProfileService) AdjustStorage(ctx context.Context, userID string, delta int64) (int64, error) {
	used, err := s.repo.AdjustStorage(ctx, userID, delta)
	s.cache.Remove(userID)
	return used, err
}

func (s *ProfileService) SetPlan(ctx context.Context, userID, plan, customerID string) error {
	if !domain.ValidPlan(plan) {
		return fmt.Errorf("unknown plan %q: %w", plan, apperr.ErrInvalidInput)
	}
	err := s.repo.SetPlan(ctx, userID, plan, customerID)
	s.cache.Remove(userID)
	return err
}

// Quota reads usage from the cached profile, so it may lag recent uploads by the cache TTL.
func (s *ProfileService) Quota(ctx context.Context, userID string) (*domain.Quota, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.Quota{Plan: p.Plan, Used: p.StorageUsed, Limit: s.limits.For(p.Plan)}, nil
}

// CheckQuota fails with ErrQuotaExceeded when additional bytes do not fit.
func (s *ProfileService) CheckQuota(ctx context.Context, userID string, additional int64) (*domain.Quota, error) {
	q, err := s.Quota(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !q.Allows(additional) {
		return q, fmt.Errorf("%d of %d bytes used: %w", q.Used, q.Limit, apperr.ErrQuotaExceeded)
	}
	return q, nil
}

func normalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "@")))
}
