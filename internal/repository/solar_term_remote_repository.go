package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/jieqi-converter/internal/models"
	appErrors "github.com/noah-isme/jieqi-converter/pkg/errors"
)

// maxRemoteBody caps how much of a remote response is read.
const maxRemoteBody = 1 << 20

// RemoteTermRepository fetches solar-term tables from an HTTP data source.
//
// The source is expected to answer GET {baseURL}/{year} with
//
//	{"year": 2008, "terms": [{"name": "立春", "date": "2008-02-04", "time": "19:00"}, ...]}
type RemoteTermRepository struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRemoteTermRepository constructs a remote source with the given request timeout.
func NewRemoteTermRepository(baseURL string, timeout time.Duration, logger *zap.Logger) *RemoteTermRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteTermRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Name returns the source name.
func (r *RemoteTermRepository) Name() string {
	return "remote:" + r.baseURL
}

type remoteTermPayload struct {
	Year  int `json:"year"`
	Terms []struct {
		Name string `json:"name"`
		Date string `json:"date"`
		Time string `json:"time"`
	} `json:"terms"`
}

// FetchTerms retrieves the 24 terms of a solar year. Every failure is reported as ErrRemoteUnavailable.
func (r *RemoteTermRepository) FetchTerms(ctx context.Context, year int) ([]models.SolarTerm, error) {
	endpoint := fmt.Sprintf("%s/%d", r.baseURL, year)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, remoteError(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, remoteError(err, "failed to execute request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return nil, remoteError(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, remoteError(fmt.Errorf("status %d", resp.StatusCode), "remote source returned an error")
	}

	var payload remoteTermPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, remoteError(err, "failed to parse response")
	}
	if payload.Year != 0 && payload.Year != year {
		return nil, remoteError(fmt.Errorf("asked for %d, got %d", year, payload.Year), "remote source returned another year")
	}

	terms, err := normalizeRemoteTerms(year, payload)
	if err != nil {
		return nil, remoteError(err, "malformed term table")
	}

	r.logger.Debug("fetched remote solar terms", zap.Int("year", year), zap.String("source", r.baseURL))
	return terms, nil
}

// normalizeRemoteTerms validates a payload for solar year and returns it in cycle order.
// Each term must fall in the calendar year AnchorYear assigns to its month.
func normalizeRemoteTerms(year int, payload remoteTermPayload) ([]models.SolarTerm, error) {
	if len(payload.Terms) != models.TermCount {
		return nil, fmt.Errorf("expected %d terms, got %d", models.TermCount, len(payload.Terms))
	}

	byName := make(map[models.TermName]models.SolarTerm, models.TermCount)
	for _, raw := range payload.Terms {
		name := models.TermName(strings.TrimSpace(raw.Name))
		if !name.Valid() {
			return nil, fmt.Errorf("unknown term %q", raw.Name)
		}
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("duplicate term %q", raw.Name)
		}
		at, err := time.Parse("2006-01-02 15:04", strings.TrimSpace(raw.Date)+" "+strings.TrimSpace(raw.Time))
		if err != nil {
			return nil, fmt.Errorf("term %s: %w", name, err)
		}
		if want := models.AnchorYear(year, at.Month()); at.Year() != want {
			return nil, fmt.Errorf("term %s dated %d, want %d", name, at.Year(), want)
		}
		byName[name] = models.SolarTerm{
			Name:   name,
			Year:   at.Year(),
			Month:  at.Month(),
			Day:    at.Day(),
			Hour:   at.Hour(),
			Minute: at.Minute(),
		}
	}

	ordered := make([]models.SolarTerm, 0, models.TermCount)
	var prev time.Time
	for i, name := range models.TermNames {
		term := byName[name]
		at := term.At()
		if i > 0 && !at.After(prev) {
			return nil, fmt.Errorf("term %s is not after its predecessor", name)
		}
		prev = at
		ordered = append(ordered, term)
	}
	return ordered, nil
}

func remoteError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, message)
}
