package reward

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const maxBodySize = 1 << 10

// HTTPSource asks a remote bandit server for rewards:
// GET {baseURL}/{type}?k={arm}&u={username}, answered with the reward as plain text.
type HTTPSource struct {
	client   *http.Client
	baseURL  string
	kind     string
	username string
	limiter  *rate.Limiter
}

// NewHTTPSource paces requests to ratePerSecond with the given burst. A non
// positive rate disables pacing.
func NewHTTPSource(baseURL, kind, username string, timeout time.Duration, ratePerSecond float64, burst int) *HTTPSource {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}

	if burst < 1 {
		burst = 1
	}

	return &HTTPSource{
		client:   &http.Client{Timeout: timeout},
		baseURL:  strings.TrimRight(baseURL, "/"),
		kind:     kind,
		username: username,
		limiter:  rate.NewLimiter(limit, burst),
	}
}

func (s *HTTPSource) Reward(ctx context.Context, arm int) (float64, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("cannot wait for reward request slot, %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(arm), nil)
	if err != nil {
		return 0, fmt.Errorf("cannot build reward request, %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("cannot fetch reward for arm %d, %w", arm, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, fmt.Errorf("cannot read reward for arm %d, %w", arm, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return 0, fmt.Errorf("reward server answered %d for arm %d", resp.StatusCode, arm)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(string(body)), 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse reward for arm %d, %w", arm, err)
	}

	return value, nil
}

func (s *HTTPSource) url(arm int) string {
	query := url.Values{}
	query.Set("k", strconv.Itoa(arm))
	query.Set("u", s.username)

	return s.baseURL + "/" + url.PathEscape(s.kind) + "?" + query.Encode()
}
