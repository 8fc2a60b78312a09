package fourbyte

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/trebuchet-org/calldata-lens/internal/domain"
	"github.com/trebuchet-org/calldata-lens/internal/domain/config"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

const signaturesPath = "/api/v1/signatures/"

// signatureResult mirrors one entry of the directory's JSON response.
type signatureResult struct {
	ID            int64     `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	TextSignature string    `json:"text_signature"`
	HexSignature  string    `json:"hex_signature"`
}

type signaturePage struct {
	Count   int               `json:"count"`
	Next    string            `json:"next"`
	Results []signatureResult `json:"results"`
}

// StatusError is returned for non-2xx directory responses.
type StatusError struct {
	URL    string
	Status int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("signature directory returned %d for %s", e.Status, e.URL)
}

// Client queries a 4byte-compatible signature directory.
type Client struct {
	http    *resty.Client
	baseURL string
	cfg     config.DirectoryConfig
	log     *slog.Logger
}

var _ usecase.SignatureDirectory = (*Client)(nil)

// NewClient creates a new directory client
func NewClient(cfg *config.RuntimeConfig, log *slog.Logger) *Client {
	client := resty.New().
		SetTimeout(cfg.Directory.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:    client,
		baseURL: strings.TrimRight(cfg.Directory.URL, "/"),
		cfg:     cfg.Directory,
		log:     log.With("component", "FourByteClient"),
	}
}

// Lookup returns every candidate registered for selector, oldest first.
func (c *Client) Lookup(ctx context.Context, selector string) ([]domain.SignatureCandidate, error) {
	var results []signatureResult

	url := c.baseURL + signaturesPath
	query := map[string]string{"hex_signature": selector}
	for page := 1; url != "" && page <= c.cfg.MaxPages; page++ {
		p, err := c.fetch(ctx, url, query)
		if err != nil {
			return nil, err
		}
		results = append(results, p.Results...)

		// next already carries the query
		url, query = p.Next, nil
		if url != "" && page == c.cfg.MaxPages {
			c.log.Warn("Stopped following directory pages", "selector", selector, "pages", page, "total", p.Count)
		}
	}

	results = lo.UniqBy(results, func(r signatureResult) int64 { return r.ID })
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})

	candidates := lo.Map(results, func(r signatureResult, _ int) domain.SignatureCandidate {
		return domain.SignatureCandidate{
			ID:            r.ID,
			TextSignature: r.TextSignature,
			HexSignature:  strings.ToLower(r.HexSignature),
			CreatedAt:     r.CreatedAt,
		}
	})
	c.log.Debug("Directory lookup", "selector", selector, "candidates", len(candidates))
	return candidates, nil
}

// LookupMany looks up selectors concurrently. The first failure cancels the
// remaining lookups.
func (c *Client) LookupMany(ctx context.Context, selectors []string) (map[string][]domain.SignatureCandidate, error) {
	var (
		mu  sync.Mutex
		out = make(map[string][]domain.SignatureCandidate, len(selectors))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)
	for _, selector := range selectors {
		g.Go(func() error {
			candidates, err := c.Lookup(ctx, selector)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", selector, err)
			}
			mu.Lock()
			out[selector] = candidates
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, url string, query map[string]string) (*signaturePage, error) {
	return retry.DoWithData(
		func() (*signaturePage, error) {
			var page signaturePage
			resp, err := c.http.R().
				SetContext(ctx).
				SetQueryParams(query).
				SetResult(&page).
				Get(url)
			if err != nil {
				return nil, err
			}

			if status := resp.StatusCode(); status != http.StatusOK {
				err := StatusError{URL: url, Status: status}
				if status == http.StatusTooManyRequests || status >= 500 {
					return nil, err
				}
				return nil, retry.Unrecoverable(err)
			}
			return &page, nil
		},
		retry.Context(ctx),
		retry.Attempts(c.cfg.Retries),
		retry.Delay(c.cfg.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			c.log.Debug("Retrying directory request", "attempt", attempt+1, "url", url, "err", err)
		}),
	)
}
