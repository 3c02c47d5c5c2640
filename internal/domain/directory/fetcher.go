package directory

import (
	"context"
	"net/url"
	"strconv"

	"petvet/internal/platform/httpclient"
)

const searchPath = "search_results.php"

// Fetcher trae el HTML crudo de una página de resultados (page empieza en 1).
type Fetcher interface {
	FetchPage(ctx context.Context, zip string, page int) (string, error)
}

// HTTPFetcher pega contra el sitio real: <base>search_results.php?radius=&zip=[&page=].
type HTTPFetcher struct {
	client *httpclient.Client
	radius int
}

// NewHTTPFetcher espera un client con BaseURL apuntando al directorio.
func NewHTTPFetcher(client *httpclient.Client, radius int) *HTTPFetcher {
	if radius <= 0 {
		radius = 10
	}
	return &HTTPFetcher{client: client, radius: radius}
}

func (f *HTTPFetcher) FetchPage(ctx context.Context, zip string, page int) (string, error) {
	q := url.Values{}
	q.Set("radius", strconv.Itoa(f.radius))
	q.Set("zip", zip)
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return f.client.GetText(ctx, searchPath, q)
}
