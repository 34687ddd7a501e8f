// Package sportsdb is a client library for TheSportsDB catalog API. It
// layers a sliding-window rate limiter, a TTL file cache, and a retry
// policy over the remote's JSON-over-HTTPS endpoints, and exposes typed
// lookups for leagues, seasons, events, teams and drivers.
package sportsdb

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the fixed base path of the remote catalog API.
const DefaultBaseURL = "https://www.thesportsdb.com/api/v1/json"

const (
	requestWindow = time.Minute
	maxAttempts   = 3
	backoffStep   = 2 * time.Second
	cooldown429   = 60 * time.Second
)

// requestState drives the retry loop for one logical request.
type requestState int

const (
	stateAdmitting requestState = iota
	stateRequesting
	stateBackingOff
	stateCoolingDown
	stateDone
	stateFailed
)

// Client issues rate-limited, cached, retrying GET requests against the
// catalog API. It is safe for concurrent use; the rate limiter is the only
// shared mutable state and serializes admission internally.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	limiter    *rateLimiter
	cache      *responseCache
	log        *zap.Logger

	// sleep is swappable so tests can observe waits without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client from cfg. A nil httpClient gets a 30 second
// timeout default; a nil logger disables logging.
func NewClient(cfg Config, httpClient *http.Client, log *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}

	dir := cfg.CacheDir
	if dir == "" {
		dir = defaultCacheDir()
	}
	ttl := time.Duration(cfg.CacheTTLDays) * 24 * time.Hour

	return &Client{
		cfg:        cfg,
		baseURL:    DefaultBaseURL,
		httpClient: httpClient,
		limiter:    newRateLimiter(cfg.MaxRequestsPerMinute, requestWindow, log),
		cache:      newResponseCache(dir, ttl, log),
		log:        log,
		sleep:      sleepCtx,
	}, nil
}

// ClearCache removes every cached response. The next lookups fetch live.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// requestURL builds the fully-qualified request URL. The API key is part
// of the path, which also makes it part of the cache key.
func (c *Client) requestURL(endpoint string, params url.Values) string {
	u := c.baseURL + "/" + url.PathEscape(c.cfg.APIKey) + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// get runs one logical request through the cache, the admission gate and
// the retry state machine, returning the raw response body.
//
// Transient transport errors consume one of three attempts and back off
// 2s×attempt between tries. HTTP 429 never consumes an attempt: the client
// cools down for a fixed 60s and starts over, bounded only by ctx. Any
// other non-2xx status fails immediately with a StatusError.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL := c.requestURL(endpoint, params)
	key := cacheKey(reqURL)

	if payload, ok := c.cache.Get(key); ok {
		c.log.Debug("cache hit", zap.String("endpoint", endpoint))
		return payload, nil
	}

	var (
		body    []byte
		lastErr error
		attempt int
	)

	state := stateAdmitting
	for state != stateDone && state != stateFailed {
		switch state {
		case stateAdmitting:
			if err := c.limiter.wait(ctx); err != nil {
				lastErr = err
				state = stateFailed
				break
			}
			state = stateRequesting

		case stateRequesting:
			attempt++
			payload, status, err := c.do(ctx, reqURL)
			switch {
			case err != nil && !isTransient(err):
				lastErr = err
				state = stateFailed
			case err != nil:
				lastErr = err
				if attempt >= maxAttempts {
					c.log.Warn("request failed after retries",
						zap.String("endpoint", endpoint),
						zap.Int("attempts", attempt),
						zap.Error(err))
					state = stateFailed
				} else {
					state = stateBackingOff
				}
			case status == http.StatusTooManyRequests:
				state = stateCoolingDown
			case status < 200 || status > 299:
				lastErr = &StatusError{Endpoint: endpoint, Code: status}
				state = stateFailed
			default:
				body = payload
				state = stateDone
			}

		case stateBackingOff:
			wait := backoffStep * time.Duration(attempt)
			c.log.Debug("retrying after transient failure",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", wait))
			if err := c.sleep(ctx, wait); err != nil {
				lastErr = err
				state = stateFailed
				break
			}
			state = stateAdmitting

		case stateCoolingDown:
			// The remote asked us to slow down. This does not count
			// against the attempt budget; only ctx bounds it.
			attempt = 0
			c.log.Warn("remote rate limit hit, cooling down",
				zap.String("endpoint", endpoint),
				zap.Duration("cooldown", cooldown429))
			if err := c.sleep(ctx, cooldown429); err != nil {
				lastErr = err
				state = stateFailed
				break
			}
			state = stateAdmitting
		}
	}

	if state == stateFailed {
		return nil, lastErr
	}

	c.cache.Set(key, body)
	return body, nil
}

// do issues a single HTTP attempt and drains the body.
func (c *Client) do(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

// SeasonEvents lists every event for a league's season, in remote order.
func (c *Client) SeasonEvents(ctx context.Context, leagueID, season string) ([]Event, error) {
	params := url.Values{}
	params.Set("id", leagueID)
	params.Set("s", season)
	body, err := c.get(ctx, "eventsseason.php", params)
	if err != nil {
		return nil, err
	}
	var events []Event
	if err := decodeList(body, "events", &events); err != nil {
		return nil, err
	}
	return events, nil
}

// LookupEvent fetches a single event by its remote id.
func (c *Client) LookupEvent(ctx context.Context, eventID string) (*Event, error) {
	params := url.Values{}
	params.Set("id", eventID)
	body, err := c.get(ctx, "lookupevent.php", params)
	if err != nil {
		return nil, err
	}
	var events []Event
	if err := decodeList(body, "events", &events); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

// SearchEvents free-text searches events by name. The remote wraps search
// results under "event", unlike the other event endpoints.
func (c *Client) SearchEvents(ctx context.Context, query string) ([]Event, error) {
	params := url.Values{}
	params.Set("e", query)
	body, err := c.get(ctx, "searchevents.php", params)
	if err != nil {
		return nil, err
	}
	var events []Event
	if err := decodeList(body, "event", &events); err != nil {
		return nil, err
	}
	return events, nil
}

// AllLeagues lists every league known to the catalog.
func (c *Client) AllLeagues(ctx context.Context) ([]League, error) {
	body, err := c.get(ctx, "all_leagues.php", nil)
	if err != nil {
		return nil, err
	}
	var leagues []League
	if err := decodeList(body, "leagues", &leagues); err != nil {
		return nil, err
	}
	return leagues, nil
}

// LookupLeague fetches a single league by its remote id.
func (c *Client) LookupLeague(ctx context.Context, leagueID string) (*League, error) {
	params := url.Values{}
	params.Set("id", leagueID)
	body, err := c.get(ctx, "lookupleague.php", params)
	if err != nil {
		return nil, err
	}
	var leagues []League
	if err := decodeList(body, "leagues", &leagues); err != nil {
		return nil, err
	}
	if len(leagues) == 0 {
		return nil, nil
	}
	return &leagues[0], nil
}

// ListSeasons lists the seasons recorded for a league.
func (c *Client) ListSeasons(ctx context.Context, leagueID string) ([]Season, error) {
	params := url.Values{}
	params.Set("id", leagueID)
	body, err := c.get(ctx, "search_all_seasons.php", params)
	if err != nil {
		return nil, err
	}
	var seasons []Season
	if err := decodeList(body, "seasons", &seasons); err != nil {
		return nil, err
	}
	return seasons, nil
}

// LeagueTeams lists the teams competing in a league, for supplementary
// imagery.
func (c *Client) LeagueTeams(ctx context.Context, leagueID string) ([]Team, error) {
	params := url.Values{}
	params.Set("id", leagueID)
	body, err := c.get(ctx, "lookup_all_teams.php", params)
	if err != nil {
		return nil, err
	}
	var teams []Team
	if err := decodeList(body, "teams", &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// LookupDriver fetches a single driver by remote id, for supplementary
// imagery.
func (c *Client) LookupDriver(ctx context.Context, driverID string) (*Driver, error) {
	params := url.Values{}
	params.Set("id", driverID)
	body, err := c.get(ctx, "lookupplayer.php", params)
	if err != nil {
		return nil, err
	}
	var drivers []Driver
	if err := decodeList(body, "players", &drivers); err != nil {
		return nil, err
	}
	if len(drivers) == 0 {
		return nil, nil
	}
	return &drivers[0], nil
}
