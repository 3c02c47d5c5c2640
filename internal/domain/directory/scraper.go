package directory

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/url"
	"strings"
	"time"

	"petvet/internal/platform/apperr"
	"petvet/internal/platform/logger"
)

const (
	DefaultMaxPages    = 200
	DefaultPageTimeout = 10 * time.Second
)

var ErrPageLimit = errors.New("directory pagination exceeded page limit")

type ScraperOptions struct {
	MaxPages    int
	PageTimeout time.Duration
}

// Scraper recorre la paginación del directorio con tope de páginas y
// timeout por página.
type Scraper struct {
	fetcher     Fetcher
	base        *url.URL
	maxPages    int
	pageTimeout time.Duration
}

// NewScraper: baseURL es la raíz del directorio (contra ella se resuelven los links).
func NewScraper(fetcher Fetcher, baseURL string, opts ScraperOptions) (*Scraper, error) {
	if fetcher == nil {
		return nil, errors.New("directory: nil fetcher")
	}
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("directory: invalid base url %q", baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = DefaultPageTimeout
	}
	return &Scraper{
		fetcher:     fetcher,
		base:        base,
		maxPages:    opts.MaxPages,
		pageTimeout: opts.PageTimeout,
	}, nil
}

// Listings devuelve una secuencia perezosa y finita, en el orden del sitio
// (página por página, fila por fila). Cada recorrido vuelve a empezar en la
// página 1. Un error de página corta la secuencia: se entrega una única vez
// como último elemento.
func (s *Scraper) Listings(ctx context.Context, zip string) iter.Seq2[Listing, error] {
	return func(yield func(Listing, error) bool) {
		log := logger.FromContext(ctx)

		for page := 1; ; page++ {
			if page > s.maxPages {
				yield(Listing{}, apperr.Fetch("directory pagination did not terminate",
					fmt.Errorf("%w: %d", ErrPageLimit, s.maxPages)))
				return
			}

			p, err := s.fetchPage(ctx, zip, page)
			if err != nil {
				yield(Listing{}, err)
				return
			}
			if p.Skipped > 0 {
				log.Debug("directory rows skipped", map[string]any{"page": page, "skipped": p.Skipped})
			}

			for _, l := range p.Listings {
				if !yield(l, nil) {
					return
				}
			}
			if !p.HasNext {
				return
			}
		}
	}
}

// Collect junta toda la secuencia; cualquier error de página aborta.
func (s *Scraper) Collect(ctx context.Context, zip string) ([]Listing, error) {
	out := make([]Listing, 0)
	for l, err := range s.Listings(ctx, zip) {
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *Scraper) fetchPage(ctx context.Context, zip string, page int) (Page, error) {
	pctx, cancel := context.WithTimeout(ctx, s.pageTimeout)
	defer cancel()

	html, err := s.fetcher.FetchPage(pctx, zip, page)
	if err != nil {
		if errors.Is(pctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("page %d timed out after %s: %w", page, s.pageTimeout, err)
		}
		return Page{}, apperr.Fetch(fmt.Sprintf("fetch directory page %d", page), err)
	}

	p, err := ParsePage(html, s.base)
	if err != nil {
		return Page{}, apperr.Fetch(fmt.Sprintf("parse directory page %d", page), err)
	}
	return p, nil
}
