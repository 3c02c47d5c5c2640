package directory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"petvet/internal/authz"
	"petvet/internal/domain/offices"
	"petvet/internal/platform/apperr"
	"petvet/internal/platform/httpclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageOne = `<html><body><table>
<tr valign="top">
  <td class="vetText"><b>Acme   Vet</b> <span class="distanceText">(1.2 miles)</span></td>
  <td class="vetText"><a href="vet_detail.php?id=1">Details</a></td>
</tr>
<tr><td colspan="2"><div class="vetText">123 Main St
    Woodbridge, VA 22192</div></td></tr>
<tr valign="top">
  <td class="vetText">No Link Clinic</td>
  <td class="vetText"></td>
</tr>
<tr><td colspan="2"><div class="vetText">1 Nowhere</div></td></tr>
<tr valign="top">
  <td class="vetText">Bay Animal Hospital</td>
  <td class="vetText"><a href="/vet_detail.php?id=2">Details</a></td>
</tr>
<tr><td colspan="2"><div class="vetText">9 Bay Rd</div></td></tr>
</table>
<a title="Next Page" href="search_results.php?zip=22192&page=2">Next</a>
</body></html>`

const pageTwo = `<table>
<tr valign="top">
  <td class="vetText">Last Clinic</td>
  <td class="vetText"><a href="https://other.example/detail/3">Details</a></td>
</tr>
<tr><td><div class="vetText">3 End Ave</div></td></tr>
</table>`

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestParsePage(t *testing.T) {
	p, err := ParsePage(pageOne, mustURL(t, "https://www.vetlocator.com/"))
	require.NoError(t, err)

	assert.True(t, p.HasNext)
	assert.Equal(t, 1, p.Skipped)
	require.Len(t, p.Listings, 2)

	assert.Equal(t, Listing{
		Name:       "Acme Vet",
		Address:    "123 Main St Woodbridge, VA 22192",
		DetailLink: "https://www.vetlocator.com/vet_detail.php?id=1",
	}, p.Listings[0])
	assert.Equal(t, "Bay Animal Hospital", p.Listings[1].Name)
	assert.Equal(t, "9 Bay Rd", p.Listings[1].Address)
	assert.Equal(t, "https://www.vetlocator.com/vet_detail.php?id=2", p.Listings[1].DetailLink)
}

func TestParsePage_LastPageAndAbsoluteLinks(t *testing.T) {
	p, err := ParsePage(pageTwo, mustURL(t, "https://www.vetlocator.com/"))
	require.NoError(t, err)

	assert.False(t, p.HasNext)
	require.Len(t, p.Listings, 1)
	assert.Equal(t, "https://other.example/detail/3", p.Listings[0].DetailLink)
}

func TestValidateZip(t *testing.T) {
	assert.NoError(t, ValidateZip("22192"))
	for _, bad := range []string{"", "1234", "123456", "2219a", " 2219", "２２１９２"} {
		assert.True(t, apperr.Is(ValidateZip(bad), apperr.KindValidation), bad)
	}
}

// fakeFetcher sirve páginas fijas y cuenta llamadas.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[int]string
	calls []int
	err   error
	delay time.Duration
	loop  bool // toda página anuncia "siguiente"
}

func (f *fakeFetcher) FetchPage(ctx context.Context, zip string, page int) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, page)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	if f.loop {
		return fmt.Sprintf(`<table><tr valign="top"><td class="vetText">Clinic %d</td><td class="vetText"><a href="d?id=%d">x</a></td></tr></table><a title="Next Page">n</a>`, page, page), nil
	}
	return f.pages[page], nil
}

func newScraper(t *testing.T, f Fetcher, opts ScraperOptions) *Scraper {
	t.Helper()
	s, err := NewScraper(f, "https://www.vetlocator.com", opts)
	require.NoError(t, err)
	return s
}

func TestScraper_FollowsPagination(t *testing.T) {
	f := &fakeFetcher{pages: map[int]string{1: pageOne, 2: pageTwo}}
	s := newScraper(t, f, ScraperOptions{})

	got, err := s.Collect(context.Background(), "22192")
	require.NoError(t, err)

	names := make([]string, 0, len(got))
	for _, l := range got {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"Acme Vet", "Bay Animal Hospital", "Last Clinic"}, names)
	assert.Equal(t, []int{1, 2}, f.calls)
}

func TestScraper_IsLazyAndRestartable(t *testing.T) {
	f := &fakeFetcher{pages: map[int]string{1: pageOne, 2: pageTwo}}
	s := newScraper(t, f, ScraperOptions{})
	seq := s.Listings(context.Background(), "22192")

	for l, err := range seq {
		require.NoError(t, err)
		assert.Equal(t, "Acme Vet", l.Name)
		break
	}
	assert.Equal(t, []int{1}, f.calls)

	n := 0
	for _, err := range seq {
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 3, n)
	assert.Equal(t, []int{1, 1, 2}, f.calls)
}

func TestScraper_PageLimit(t *testing.T) {
	f := &fakeFetcher{loop: true}
	s := newScraper(t, f, ScraperOptions{MaxPages: 3})

	_, err := s.Collect(context.Background(), "22192")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindFetch))
	assert.True(t, errors.Is(err, ErrPageLimit))
	assert.Len(t, f.calls, 3)
}

func TestScraper_PageTimeoutAbortsScrape(t *testing.T) {
	f := &fakeFetcher{delay: time.Second}
	s := newScraper(t, f, ScraperOptions{PageTimeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := s.Collect(context.Background(), "22192")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindFetch))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestScraper_FetchErrorKeepsCause(t *testing.T) {
	cause := &httpclient.HTTPError{StatusCode: http.StatusBadGateway}
	s := newScraper(t, &fakeFetcher{err: cause}, ScraperOptions{})

	_, err := s.Collect(context.Background(), "22192")
	assert.True(t, apperr.Is(err, apperr.KindFetch))

	var httpErr *httpclient.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
}

func TestNewScraper_InvalidBase(t *testing.T) {
	_, err := NewScraper(&fakeFetcher{}, "not a url", ScraperOptions{})
	assert.Error(t, err)
	_, err = NewScraper(nil, "https://x.example", ScraperOptions{})
	assert.Error(t, err)
}

func TestHTTPFetcher_BuildsUpstreamURL(t *testing.T) {
	var mu sync.Mutex
	var seen []url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search_results.php", r.URL.Path)
		mu.Lock()
		seen = append(seen, r.URL.Query())
		mu.Unlock()
		if r.URL.Query().Get("page") == "2" {
			_, _ = w.Write([]byte(pageTwo))
			return
		}
		_, _ = w.Write([]byte(pageOne))
	}))
	defer ts.Close()

	client, err := httpclient.NewWithBaseURL(ts.URL+"/", time.Second)
	require.NoError(t, err)
	s, err := NewScraper(NewHTTPFetcher(client, 10), ts.URL+"/", ScraperOptions{})
	require.NoError(t, err)

	got, err := s.Collect(context.Background(), "22192")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, ts.URL+"/vet_detail.php?id=1", got[0].DetailLink)

	require.Len(t, seen, 2)
	assert.Equal(t, "10", seen[0].Get("radius"))
	assert.Equal(t, "22192", seen[0].Get("zip"))
	assert.False(t, seen[0].Has("page"))
	assert.Equal(t, "2", seen[1].Get("page"))
}

type fakeSource struct {
	listings []Listing
	err      error
	calls    int
	delay    time.Duration
}

func (f *fakeSource) Collect(ctx context.Context, _ string) ([]Listing, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.listings, f.err
}

type fakePartnered []offices.PartneredOffice

func (f fakePartnered) AllPartnered(context.Context) ([]offices.PartneredOffice, error) {
	return f, nil
}

type memCache struct {
	data map[string][]Listing
	sets int
}

func (c *memCache) Get(_ context.Context, zip string) ([]Listing, bool, error) {
	l, ok := c.data[zip]
	return l, ok, nil
}

func (c *memCache) Set(_ context.Context, zip string, l []Listing, _ time.Duration) error {
	c.data[zip] = l
	c.sets++
	return nil
}

var owner = &authz.Identity{ID: "o1", Role: authz.RoleUser, Type: authz.TypeOwner}

func TestService_SearchTagsPartnered(t *testing.T) {
	src := &fakeSource{listings: []Listing{
		{Name: "Acme Vet", Address: "123 Main St", DetailLink: "l1"},
		{Name: "Acme Vet", Address: "124 Main St", DetailLink: "l2"},
		{Name: "Bay  Animal", Address: "9 Bay Rd", DetailLink: "l3"},
	}}
	partnered := fakePartnered{
		{ID: "p1", Name: "  ACME vet ", Address: "123 MAIN ST"},
		{ID: "p2", Name: "Bay Animal", Address: "9 Bay Rd"}, // sin fuzzy: doble espacio no matchea
	}
	svc := NewService(src, partnered, nil, 0)

	got, err := svc.Search(context.Background(), owner, "22192")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Partnered)
	assert.False(t, got[1].Partnered)
	assert.False(t, got[2].Partnered)
	assert.Equal(t, "l1", got[0].DetailLink)
}

func TestService_SearchValidatesAndAuthorizes(t *testing.T) {
	src := &fakeSource{}
	svc := NewService(src, fakePartnered{}, nil, 0)

	_, err := svc.Search(context.Background(), owner, "1234")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Search(context.Background(), nil, "22192")
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
	assert.Zero(t, src.calls)
}

func TestService_SearchUsesCacheButRetagsEveryTime(t *testing.T) {
	src := &fakeSource{listings: []Listing{{Name: "Acme Vet", Address: "1 A St", DetailLink: "l1"}}}
	cache := &memCache{data: map[string][]Listing{}}

	partnered := fakePartnered{}
	svc := NewService(src, partnered, cache, time.Minute)
	got, err := svc.Search(context.Background(), owner, "22192")
	require.NoError(t, err)
	assert.False(t, got[0].Partnered)

	svc = NewService(src, fakePartnered{{ID: "p1", Name: "Acme Vet", Address: "1 A St"}}, cache, time.Minute)
	got, err = svc.Search(context.Background(), owner, "22192")
	require.NoError(t, err)
	assert.True(t, got[0].Partnered)

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 1, cache.sets)
}

func TestService_FetchErrorPropagates(t *testing.T) {
	src := &fakeSource{err: apperr.Fetch("fetch directory page 1", errors.New("dial tcp: refused"))}
	svc := NewService(src, fakePartnered{}, nil, 0)

	_, err := svc.Search(context.Background(), owner, "22192")
	assert.True(t, apperr.Is(err, apperr.KindFetch))
}

func TestService_SearchTimeoutBoundsWholeScrape(t *testing.T) {
	src := &fakeSource{delay: time.Second, listings: []Listing{{Name: "Acme Vet"}}}
	cache := &memCache{data: map[string][]Listing{}}
	svc := NewService(src, fakePartnered{}, cache, time.Minute).WithSearchTimeout(20 * time.Millisecond)

	start := time.Now()
	_, err := svc.Search(context.Background(), owner, "22192")
	assert.True(t, apperr.Is(err, apperr.KindFetch))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Zero(t, cache.sets)

	// con las páginas de un scraper real: el tope global gana sobre el de página
	f := &fakeFetcher{loop: true, delay: 10 * time.Millisecond}
	scr := newScraper(t, f, ScraperOptions{MaxPages: 1000, PageTimeout: time.Second})
	svc = NewService(scr, fakePartnered{}, nil, 0).WithSearchTimeout(50 * time.Millisecond)
	_, err = svc.Search(context.Background(), owner, "22192")
	assert.True(t, apperr.Is(err, apperr.KindFetch))
	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Less(t, len(f.calls), 1000)
}
