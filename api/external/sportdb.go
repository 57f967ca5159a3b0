/* sportdb.go
 * Contains the client for the sportdb.dev flashscore api, used to fetch final
 * results and upcoming fixtures for the configured leagues. Leagues are fetched in
 * parallel and a failing league degrades to an empty set with an inline error
 * marker rather than failing the whole fetch.
 * Authors: Jamie Barkway
 */

package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	resultsCacheKey = "results"
	resultsCacheTTL = 10 * time.Minute

	requestTimeout = 20 * time.Second
)

// DefaultLeagues are the English competitions the pool bets on
var DefaultLeagues = []League{
	{Name: "Premier League", Endpoint: "https://api.sportdb.dev/api/flashscore/football/england:198/premier-league:dYlOSQOD/2025-2026"},
	{Name: "Championship", Endpoint: "https://api.sportdb.dev/api/flashscore/football/england:198/championship:2DSCa5fE/2025-2026"},
	{Name: "League One", Endpoint: "https://api.sportdb.dev/api/flashscore/football/england:198/league-one:rJSMG3H0/2025-2026"},
	{Name: "League Two", Endpoint: "https://api.sportdb.dev/api/flashscore/football/england:198/league-two:0MwU4NW6/2025-2026"},
	{Name: "FA Cup", Endpoint: "https://api.sportdb.dev/api/flashscore/football/england:198/fa-cup:lYQtaqPQ/2025-2026"},
}

// Client fetches results and fixtures from the sportdb api
type Client struct {
	httpClient *http.Client
	apiKey     string
	leagues    []League
	cache      *Cache
	limiter    *rate.Limiter
	log        *zap.SugaredLogger
}

// NewClient builds a sportdb client for the given leagues.
// Preconditions: Receives the api key, the league list (DefaultLeagues when nil) and a logger
// Postconditions: Returns a client with a shared request throttle and a results cache
func NewClient(apiKey string, leagues []League, logger *zap.SugaredLogger) *Client {
	if len(leagues) == 0 {
		leagues = DefaultLeagues
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		apiKey:     apiKey,
		leagues:    leagues,
		cache:      NewCache(),
		// The upstream free tier allows a handful of requests per second;
		// one league page each 200ms stays well inside it.
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		log:     logger,
	}
}

type leagueFetch struct {
	league  string
	matches []RawMatch
	err     error
}

// FetchResults returns final match records across all configured leagues.
// Results are cached for ten minutes. A failing league contributes an empty set
// and an error marker in the returned statuses; the call itself only fails when
// every league fails, since settlement must not run on a fully dead feed.
func (c *Client) FetchResults(ctx context.Context) ([]RawMatch, []LeagueStatus, error) {
	if cached, ok := c.cache.Get(resultsCacheKey); ok {
		c.log.Debugw("returning cached results")
		return cached.([]RawMatch), nil, nil
	}

	fetches := c.fetchAll(ctx, "results")

	var all []RawMatch
	statuses := make([]LeagueStatus, 0, len(fetches))
	failed := 0
	for _, f := range fetches {
		status := LeagueStatus{League: f.league, Count: len(f.matches)}
		if f.err != nil {
			status.Error = f.err.Error()
			failed++
			c.log.Warnw("league results fetch failed", "league", f.league, "error", f.err)
		}
		statuses = append(statuses, status)
		for _, m := range f.matches {
			m["league"] = f.league
			all = append(all, m)
		}
	}

	if failed == len(c.leagues) {
		return nil, statuses, fmt.Errorf("all %d result feeds failed", failed)
	}

	c.cache.Put(resultsCacheKey, all, resultsCacheTTL)
	return all, statuses, nil
}

// FetchFixtures returns upcoming fixtures across all configured leagues,
// sorted by kickoff time. Records that cannot be parsed into a fixture are
// skipped. Not cached: fixtures move around far more than posted results.
func (c *Client) FetchFixtures(ctx context.Context) ([]Fixture, []LeagueStatus, error) {
	fetches := c.fetchAll(ctx, "fixtures")

	var fixtures []Fixture
	statuses := make([]LeagueStatus, 0, len(fetches))
	failed := 0
	for _, f := range fetches {
		status := LeagueStatus{League: f.league}
		if f.err != nil {
			status.Error = f.err.Error()
			failed++
			c.log.Warnw("league fixtures fetch failed", "league", f.league, "error", f.err)
		}
		for _, m := range f.matches {
			fixture, err := parseFixture(m, f.league)
			if err != nil {
				continue
			}
			fixtures = append(fixtures, fixture)
			status.Count++
		}
		statuses = append(statuses, status)
	}

	if failed == len(c.leagues) {
		return nil, statuses, fmt.Errorf("all %d fixture feeds failed", failed)
	}

	sort.Slice(fixtures, func(i, j int) bool {
		return fixtures[i].StartTimeUTC.Before(fixtures[j].StartTimeUTC)
	})
	return fixtures, statuses, nil
}

// fetchAll fans out one request per league and waits for all of them
func (c *Client) fetchAll(ctx context.Context, kind string) []leagueFetch {
	p := pool.NewWithResults[leagueFetch]()
	for _, league := range c.leagues {
		p.Go(func() leagueFetch {
			matches, err := c.fetchLeague(ctx, league, kind)
			return leagueFetch{league: league.Name, matches: matches, err: err}
		})
	}
	return p.Wait()
}

// fetchLeague requests one league page and decodes the match list. The body is
// either a bare array or an object wrapping it under "results" or "fixtures".
func (c *Client) fetchLeague(ctx context.Context, league League, kind string) ([]RawMatch, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?page=1", league.Endpoint, kind)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("X-API-Key", c.apiKey)
	request.Header.Set("User-Agent", "group-bet/1.0")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s %s: status %d", league.Name, kind, response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return decodeMatchList(body)
}

func decodeMatchList(body []byte) ([]RawMatch, error) {
	var matches []RawMatch
	if err := json.Unmarshal(body, &matches); err == nil {
		return matches, nil
	}

	var wrapped struct {
		Results  []RawMatch `json:"results"`
		Fixtures []RawMatch `json:"fixtures"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("unrecognised response shape: %w", err)
	}
	if wrapped.Results != nil {
		return wrapped.Results, nil
	}
	return wrapped.Fixtures, nil
}
