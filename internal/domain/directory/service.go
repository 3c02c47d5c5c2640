package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petvet/internal/authz"
	"petvet/internal/domain/offices"
	"petvet/internal/platform/apperr"
	"petvet/internal/platform/logger"
)

// Source produce los listados (sin marcar) de un ZIP. *Scraper la implementa.
type Source interface {
	Collect(ctx context.Context, zip string) ([]Listing, error)
}

// Cache guarda listados sin marcar por ZIP; el flag partner se recalcula siempre.
type Cache interface {
	Get(ctx context.Context, zip string) ([]Listing, bool, error)
	Set(ctx context.Context, zip string, listings []Listing, ttl time.Duration) error
}

type PartneredSource interface {
	AllPartnered(ctx context.Context) ([]offices.PartneredOffice, error)
}

type Service struct {
	source   Source
	offices  PartneredSource
	cache    Cache
	cacheTTL time.Duration

	// Tope de todo el scrape; 0 => solo el timeout por página.
	searchTimeout time.Duration
}

// NewService: cache puede ser nil.
func NewService(source Source, partnered PartneredSource, cache Cache, cacheTTL time.Duration) *Service {
	return &Service{
		source:   source,
		offices:  partnered,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// WithSearchTimeout acota la búsqueda completa (todas las páginas).
func (s *Service) WithSearchTimeout(d time.Duration) *Service {
	s.searchTimeout = d
	return s
}

// Search busca clínicas por ZIP y marca las que son partner.
func (s *Service) Search(ctx context.Context, id *authz.Identity, zip string) ([]Tagged, error) {
	if err := authz.Authorize(id, authz.ActionDirectorySearch, authz.Resource{}); err != nil {
		return nil, err
	}
	if err := ValidateZip(zip); err != nil {
		return nil, err
	}

	listings, err := s.boundedListings(ctx, zip)
	if err != nil {
		return nil, err
	}

	partnered, err := s.offices.AllPartnered(ctx)
	if err != nil {
		return nil, err
	}
	return Tag(listings, offices.NewMatcher(partnered)), nil
}

// Tag marca cada listado manteniendo el orden.
func Tag(listings []Listing, m *offices.Matcher) []Tagged {
	out := make([]Tagged, 0, len(listings))
	for _, l := range listings {
		_, ok := m.Match(l.Name, l.Address)
		out = append(out, Tagged{Listing: l, Partnered: ok})
	}
	return out
}

func (s *Service) boundedListings(ctx context.Context, zip string) ([]Listing, error) {
	if s.searchTimeout <= 0 {
		return s.listings(ctx, zip)
	}
	sctx, cancel := context.WithTimeout(ctx, s.searchTimeout)
	defer cancel()

	listings, err := s.listings(sctx, zip)
	if err != nil && errors.Is(sctx.Err(), context.DeadlineExceeded) {
		return nil, apperr.Fetch(fmt.Sprintf("directory search exceeded %s", s.searchTimeout), err)
	}
	return listings, err
}

func (s *Service) listings(ctx context.Context, zip string) ([]Listing, error) {
	log := logger.FromContext(ctx)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, zip)
		if err != nil {
			log.Warn("directory cache get failed", map[string]any{"error": err, "zip": zip})
		} else if ok {
			return cached, nil
		}
	}

	listings, err := s.source.Collect(ctx, zip)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, zip, listings, s.cacheTTL); err != nil {
			log.Warn("directory cache set failed", map[string]any{"error": err, "zip": zip})
		}
	}
	return listings, nil
}
