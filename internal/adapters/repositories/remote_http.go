package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"maritime-route-service/internal/apperr"
	"maritime-route-service/internal/domain"
)

// httpStatusError mirrors the teacher's adapters/distance httpStatusError,
// generalized out of the ORS client so any remote adapter can classify a
// non-2xx response for the retry policy below.
type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("remote catalog: status %d: %s", e.Code, e.Body)
}

// RemotePortRepository implements ports.PortRepository against an HTTP
// catalog service, for deployments where the port catalog is owned by an
// upstream fleet-management system rather than this service's own
// database. Retry/backoff is the teacher's ORSDistanceProvider.doWithRetry
// idiom, generalized to a plain http.Client rather than one bound to a
// single provider.
type RemotePortRepository struct {
	baseURL string
	client  *http.Client
}

func NewRemotePortRepository(baseURL string, client *http.Client) *RemotePortRepository {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemotePortRepository{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (r *RemotePortRepository) Get(ctx context.Context, code string) (domain.Port, error) {
	var p remotePort
	err := r.getJSON(ctx, "/ports/"+url.PathEscape(strings.ToUpper(code)), &p)
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			return domain.Port{}, apperr.New(apperr.KindPortNotFound, "no such port").WithDetail("code", code)
		}
		return domain.Port{}, err
	}
	return p.toDomain(), nil
}

func (r *RemotePortRepository) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchHit, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return nil, apperr.New(apperr.KindValidation, "search query must be at least 2 characters")
	}

	q := url.Values{}
	q.Set("q", query)
	if opts.Country != "" {
		q.Set("country", opts.Country)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}

	var raw []remotePort
	if err := r.getJSON(ctx, "/ports?"+q.Encode(), &raw); err != nil {
		return nil, err
	}

	candidates := make([]domain.Port, len(raw))
	for i, rp := range raw {
		candidates[i] = rp.toDomain()
	}
	return RankPorts(query, candidates, opts), nil
}

func (r *RemotePortRepository) Nearby(ctx context.Context, latDeg, lonDeg, radiusNM float64, limit int) ([]domain.Port, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(latDeg, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lonDeg, 'f', -1, 64))
	q.Set("radius_nm", strconv.FormatFloat(radiusNM, 'f', -1, 64))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var raw []remotePort
	if err := r.getJSON(ctx, "/ports/nearby?"+q.Encode(), &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Port, len(raw))
	for i, rp := range raw {
		out[i] = rp.toDomain()
	}
	return out, nil
}

func (r *RemotePortRepository) All(ctx context.Context) ([]domain.Port, error) {
	var raw []remotePort
	if err := r.getJSON(ctx, "/ports/all", &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Port, len(raw))
	for i, rp := range raw {
		out[i] = rp.toDomain()
	}
	return out, nil
}

func (r *RemotePortRepository) getJSON(ctx context.Context, path string, dest any) error {
	resp, err := r.doWithRetry(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	})
	if err != nil {
		return apperr.Wrap(apperr.KindBackendUnavailable, "remote port catalog request failed", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("remote catalog: decode %s: %w", path, err)
	}
	return nil
}

func (r *RemotePortRepository) do(req *http.Request) (*http.Response, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429/500/502/503/504) with
// exponential backoff while respecting context cancellation, following
// the teacher's ORSDistanceProvider.doWithRetry.
func (r *RemotePortRepository) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := r.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}
		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
	return nil, lastErr
}

// remotePort is the wire shape of the upstream catalog service.
type remotePort struct {
	Code             string   `json:"code"`
	Name             string   `json:"name"`
	Country          string   `json:"country"`
	Lat              float64  `json:"lat"`
	Lon              float64  `json:"lon"`
	Type             string   `json:"type"`
	Status           string   `json:"status"`
	MaxLengthM       *float64 `json:"max_length_m"`
	MaxBeamM         *float64 `json:"max_beam_m"`
	MaxDraftM        *float64 `json:"max_draft_m"`
	BerthCount       int      `json:"berth_count"`
	CongestionFactor float64  `json:"congestion_factor"`
	AvgPortStayHours float64  `json:"avg_port_stay_hours"`
	Services         []string `json:"services"`
	Facilities       []string `json:"facilities"`
	SuezConnected    bool     `json:"suez_connected"`
	PanamaConnected  bool     `json:"panama_connected"`
}

func (r remotePort) toDomain() domain.Port {
	return domain.Port{
		Code: r.Code, Name: r.Name, Country: r.Country,
		LatDeg: r.Lat, LonDeg: r.Lon,
		Type: domain.PortType(r.Type), Status: domain.PortStatus(r.Status),
		MaxLengthM: r.MaxLengthM, MaxBeamM: r.MaxBeamM, MaxDraftM: r.MaxDraftM,
		BerthCount: r.BerthCount, CongestionFactor: r.CongestionFactor,
		AvgPortStayHours: r.AvgPortStayHours,
		Services:         r.Services, Facilities: r.Facilities,
		SuezConnected: r.SuezConnected, PanamaConnected: r.PanamaConnected,
	}
}
