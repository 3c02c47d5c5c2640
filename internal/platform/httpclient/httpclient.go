package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultTimeout = 10 * time.Second

	// Tope de body leído; una página del directorio pesa bastante menos.
	maxBodyBytes = 4 << 20
)

// ErrBodyTooLarge: la respuesta supera maxBodyBytes. Nunca se devuelve un body truncado.
var ErrBodyTooLarge = errors.New("httpclient: response body too large")

// Client envuelve *resty.Client con helpers comunes para adapters.
type Client struct {
	rc      *resty.Client
	BaseURL string // opcional; si se define, GetText puede recibir paths relativos
}

// New crea un Client con timeout razonable.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rc := resty.New().
		SetTimeout(timeout).
		SetResponseBodyLimit(maxBodyBytes).
		SetHeader("User-Agent", "petvet/1.0 (+directory-sync)")
	return &Client{rc: rc}
}

// NewWithBaseURL crea un Client con BaseURL + timeout.
func NewWithBaseURL(baseURL string, timeout time.Duration) (*Client, error) {
	c := New(timeout)
	if strings.TrimSpace(baseURL) == "" {
		return c, nil
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	c.rc.SetBaseURL(c.BaseURL)
	return c, nil
}

// NewWithTransport permite inyectar un Transport (p.ej. para tests).
func NewWithTransport(timeout time.Duration, tr http.RoundTripper) *Client {
	c := New(timeout)
	if tr != nil {
		c.rc.SetTransport(tr)
	}
	return c
}

// HTTPError representa una respuesta no-2xx.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// GetText hace un GET y devuelve el body como string (HTML, texto plano).
// Retorna *HTTPError si el status no es 2xx.
func (c *Client) GetText(ctx context.Context, pathOrURL string, query url.Values) (string, error) {
	if c == nil || c.rc == nil {
		return "", errors.New("httpclient: nil client")
	}
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}
	if !isAbsolute(pathOrURL) && c.BaseURL == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}

	req := c.rc.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}

	resp, err := req.Get(pathOrURL)
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		return "", fmt.Errorf("%w (limit %d bytes)", ErrBodyTooLarge, maxBodyBytes)
	}
	if err != nil {
		return "", fmt.Errorf("httpclient: do request: %w", err)
	}

	body := resp.Body()

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return "", &HTTPError{
			StatusCode: resp.StatusCode(),
			Body:       snippet,
		}
	}

	return string(body), nil
}

func isAbsolute(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
