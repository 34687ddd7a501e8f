// Package provider resolves loosely-identified media library items
// (show/season/episode) to records in TheSportsDB catalog and maps them
// onto structured metadata results for the host application.
package provider

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mhmtszr/concurrent-swiss-map"
	"go.uber.org/zap"

	"github.com/Digital-Shane/sportsdb"
)

// Kind selects which resolution path an item takes.
type Kind string

const (
	KindLeague Kind = "league"
	KindSeason Kind = "season"
	KindEvent  Kind = "event"
)

// ItemInfo describes a library item needing metadata. Every field is
// optional; the resolver works with whatever identifying data the host has.
type ItemInfo struct {
	Kind Kind

	// Name is the item's display name, e.g. "Round 22 - Las Vegas Grand Prix".
	Name string

	// Index is the item's own number within its parent (the round number
	// for events). Zero means unknown.
	Index int

	// ParentIndex is the season year for events. Zero means unknown.
	ParentIndex int

	// RemoteID is a remembered catalog id for this item, if any.
	RemoteID string

	// SeriesID is the remembered catalog id of the parent league, if any.
	SeriesID string

	// SeasonID is the remembered season name for this item's season
	// (e.g. "2024"), if any.
	SeasonID string
}

// Images holds the plain image URLs a result carries. The host's own
// fetch-and-cache pipeline consumes these.
type Images struct {
	Poster string
	Thumb  string
	Banner string
	Logo   string
	Badge  string
	Fanart []string
}

// Metadata is a populated resolution result. A nil *Metadata with a nil
// error means "no metadata found", which the host treats as a normal
// outcome.
type Metadata struct {
	Name     string
	Overview string
	AirDate  time.Time
	Round    int
	Season   int
	RemoteID string
	Images   Images
}

// catalogClient captures the sportsdb.Client methods the resolver uses.
type catalogClient interface {
	SeasonEvents(ctx context.Context, leagueID, season string) ([]sportsdb.Event, error)
	LookupEvent(ctx context.Context, eventID string) (*sportsdb.Event, error)
	SearchEvents(ctx context.Context, query string) ([]sportsdb.Event, error)
	AllLeagues(ctx context.Context) ([]sportsdb.League, error)
	LookupLeague(ctx context.Context, leagueID string) (*sportsdb.League, error)
	ListSeasons(ctx context.Context, leagueID string) ([]sportsdb.Season, error)
	LeagueTeams(ctx context.Context, leagueID string) ([]sportsdb.Team, error)
}

// Provider resolves items against the catalog. Safe for concurrent use:
// per-session memoization lives in concurrent maps and everything else is
// read-only after construction.
type Provider struct {
	cfg sportsdb.Config
	api catalogClient
	log *zap.Logger

	leagues      *csmap.CsMap[string, []sportsdb.League]
	seasonEvents *csmap.CsMap[string, []sportsdb.Event]
}

// New creates a provider backed by the given client.
func New(cfg sportsdb.Config, api catalogClient, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{
		cfg:          cfg,
		api:          api,
		log:          log,
		leagues:      csmap.Create[string, []sportsdb.League](),
		seasonEvents: csmap.Create[string, []sportsdb.Event](),
	}
}

// Fetch resolves one item by its kind tag. It returns (nil, nil) when no
// record matches, and an error only for escalated client failures.
func (p *Provider) Fetch(ctx context.Context, item ItemInfo) (*Metadata, error) {
	if !p.cfg.Enabled {
		return nil, nil
	}

	var (
		meta *Metadata
		err  error
	)
	switch item.Kind {
	case KindLeague:
		meta, err = p.fetchLeague(ctx, item)
	case KindSeason:
		meta, err = p.fetchSeason(ctx, item)
	case KindEvent:
		meta, err = p.fetchEvent(ctx, item)
	default:
		return nil, fmt.Errorf("unsupported item kind: %q", item.Kind)
	}

	if err != nil {
		p.log.Error("metadata resolution failed",
			zap.String("kind", string(item.Kind)),
			zap.String("name", item.Name),
			zap.Error(err))
		return nil, err
	}
	return meta, nil
}

// leagueMetadata maps a league record onto a show-level result.
func leagueMetadata(league *sportsdb.League) *Metadata {
	fanart := make([]string, 0, 4)
	for _, u := range []string{league.Fanart1, league.Fanart2, league.Fanart3, league.Fanart4} {
		if u != "" {
			fanart = append(fanart, u)
		}
	}
	return &Metadata{
		Name:     league.Name,
		Overview: league.Description,
		RemoteID: league.ID,
		Images: Images{
			Poster: league.Poster,
			Banner: league.Banner,
			Logo:   league.Logo,
			Badge:  league.Badge,
			Fanart: fanart,
		},
	}
}

// eventMetadata maps an event record onto an episode-level result.
func eventMetadata(event *sportsdb.Event) *Metadata {
	meta := &Metadata{
		Name:     event.Name,
		Overview: event.Description,
		Round:    parseRound(event.Round),
		Season:   seasonNumber(event.Season),
		RemoteID: event.ID,
		Images: Images{
			Poster: event.Poster,
			Thumb:  event.Thumb,
			Banner: event.Banner,
		},
	}
	if meta.Overview == "" {
		meta.Overview = event.Result
	}
	if event.Fanart != "" {
		meta.Images.Fanart = []string{event.Fanart}
	}
	meta.AirDate = parseAirDate(event.Date, event.Time)
	return meta
}

// parseRound parses the string-encoded round field; 0 means unknown.
func parseRound(round string) int {
	n, err := strconv.Atoi(strings.TrimSpace(round))
	if err != nil {
		return 0
	}
	return n
}

// seasonNumber extracts the leading year of a season name such as "2024"
// or "2023-2024"; 0 means unknown.
func seasonNumber(season string) int {
	token := strings.TrimSpace(season)
	if idx := strings.IndexAny(token, "-–"); idx > 0 {
		token = token[:idx]
	}
	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil || !yearInRange(n) {
		return 0
	}
	return n
}

// parseAirDate combines the remote's date and time fields. A bad or absent
// date yields the zero time.
func parseAirDate(date, clock string) time.Time {
	if date == "" {
		return time.Time{}
	}
	if clock != "" {
		if t, err := time.Parse("2006-01-02 15:04:05", date+" "+clock); err == nil {
			return t
		}
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}
	}
	return t
}
