package meals

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tartampluch/go-mealplan/internal/calendar"
	"github.com/tartampluch/go-mealplan/internal/config"
	"github.com/zalando/go-keyring"
)

// HTTPSource reads meals from the meal planner's month_meals endpoint,
// which answers GET <BaseURL>?year=YYYY&month=M with {"month_meals": [...]}.
type HTTPSource struct {
	BaseURL string
	User    string
	Pass    string
	Client  *http.Client
}

// NewHTTPSource creates a source with configured timeouts.
func NewHTTPSource(baseURL, user, pass string) *HTTPSource {
	return &HTTPSource{
		BaseURL: baseURL,
		User:    user,
		Pass:    pass,
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// PasswordFromKeyring looks up the stored password of user in the OS keyring.
// A missing entry yields an empty password.
func PasswordFromKeyring(user string) string {
	if user == "" {
		return ""
	}
	pass, err := keyring.Get(config.KeyringService, user)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyUser, user,
			config.LogKeyError, err,
			config.LogKeyComponent, config.CompFetcher)
		return ""
	}
	return pass
}

// MealsForMonth downloads and decodes the records of m.
// It enforces a maximum response size limit.
func (s *HTTPSource) MealsForMonth(ctx context.Context, m calendar.Month) ([]Record, error) {
	if s.BaseURL == "" {
		return nil, errors.New(config.ErrWebURLEmpty)
	}

	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}

	// Security check: ensure strictly HTTP or HTTPS.
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	// Query parameters of the base URL may carry tokens; keep them out of logs.
	safeURL := u.Scheme + "://" + u.Host + u.Path

	q := u.Query()
	q.Set(config.QueryYear, strconv.Itoa(m.Year))
	q.Set(config.QueryMonth, strconv.Itoa(int(m.Month)))
	u.RawQuery = q.Encode()

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, safeURL),
		slog.String(config.LogKeyMonth, m.String()),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if s.User != "" || s.Pass != "" {
		req.SetBasicAuth(s.User, s.Pass)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error during fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Warn("Server returned error status",
			slog.Int(config.LogKeyStatus, resp.StatusCode),
		)
		return nil, fmt.Errorf("server returned unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	records, err := decodeExport(io.LimitReader(resp.Body, config.MaxHTTPResponseSize), false)
	if err != nil {
		return nil, err
	}

	var out []Record
	for _, r := range records {
		if m.Contains(r.ScheduledDate) {
			out = append(out, r)
		}
	}

	log.Debug(config.MsgSourceLoaded, slog.Int(config.LogKeyCount, len(out)))
	return out, nil
}
