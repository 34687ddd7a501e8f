package provider

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Digital-Shane/sportsdb"
)

// fetchLeague resolves a show-level item to a league record, by remembered
// id first and by name matching against the full league list otherwise.
func (p *Provider) fetchLeague(ctx context.Context, item ItemInfo) (*Metadata, error) {
	if item.RemoteID != "" {
		league, err := p.api.LookupLeague(ctx, item.RemoteID)
		if err != nil {
			return nil, err
		}
		if league == nil {
			return nil, nil
		}
		return leagueMetadata(league), nil
	}

	if strings.TrimSpace(item.Name) == "" {
		return nil, nil
	}

	leagues, err := p.allLeagues(ctx)
	if err != nil {
		return nil, err
	}
	for i := range leagues {
		if leagueNameMatches(item.Name, leagues[i].Name, leagues[i].AlternateName) {
			return leagueMetadata(&leagues[i]), nil
		}
	}
	return nil, nil
}

// fetchSeason resolves a season-level item. The season year must be
// extractable; "unknown" is a terminal miss for this attempt, never a
// guess. The league's season list confirms the year actually exists.
func (p *Provider) fetchSeason(ctx context.Context, item ItemInfo) (*Metadata, error) {
	year := p.seasonYear(item)
	if year == 0 {
		p.log.Debug("no season year extractable", zap.String("name", item.Name))
		return nil, nil
	}

	leagueID := item.SeriesID
	if leagueID == "" {
		return nil, nil
	}

	seasons, err := p.api.ListSeasons(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	for i := range seasons {
		if seasonNumber(seasons[i].Name) != year {
			continue
		}
		return &Metadata{
			Name:   seasons[i].Name,
			Season: year,
			Images: Images{Poster: seasons[i].Poster},
		}, nil
	}
	return nil, nil
}

// fetchEvent resolves an episode-level item to one event. Matching tiers,
// first success wins:
//
//  1. direct lookup by remembered event id
//  2. league+season+round numeric equality
//  3. normalized name fragment as case-insensitive substring
//  4. free-text search by raw name, first hit carrying season info
//
// Tier 3 deliberately accepts the first substring match in remote order
// even when several events in a season share a fragment (a sprint and a
// main race in the same city); disambiguating would need ground truth the
// catalog does not carry.
func (p *Provider) fetchEvent(ctx context.Context, item ItemInfo) (*Metadata, error) {
	if item.RemoteID != "" {
		event, err := p.api.LookupEvent(ctx, item.RemoteID)
		if err != nil {
			return nil, err
		}
		if event == nil {
			return nil, nil
		}
		return eventMetadata(event), nil
	}

	leagueID := item.SeriesID
	year := p.seasonYear(item)

	if leagueID == "" || year == 0 {
		return p.searchFallback(ctx, item)
	}

	events, err := p.leagueSeasonEvents(ctx, leagueID, strconv.Itoa(year))
	if err != nil {
		return nil, err
	}

	fragmentRound, fragment, _ := splitRound(item.Name)
	round := item.Index
	if round == 0 {
		round = fragmentRound
	}

	if round > 0 {
		for i := range events {
			if parseRound(events[i].Round) == round {
				return eventMetadata(&events[i]), nil
			}
		}
	}

	if needle := normalizeName(fragment); needle != "" {
		for i := range events {
			if strings.Contains(normalizeName(events[i].Name), needle) {
				return eventMetadata(&events[i]), nil
			}
		}
	}

	return nil, nil
}

// searchFallback free-text searches by the raw display name when no
// league/season context exists, returning the first result that also
// carries season information.
func (p *Provider) searchFallback(ctx context.Context, item ItemInfo) (*Metadata, error) {
	query := strings.TrimSpace(item.Name)
	if query == "" {
		return nil, nil
	}
	events, err := p.api.SearchEvents(ctx, query)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if strings.TrimSpace(events[i].Season) != "" {
			return eventMetadata(&events[i]), nil
		}
	}
	return nil, nil
}

// seasonYear extracts the season year for an item. Sources in order: a
// plausible parent index, the remembered season id, the first name token
// parsing as a plausible year. Zero means unknown, which callers treat as
// a terminal miss rather than retrying with guesses.
func (p *Provider) seasonYear(item ItemInfo) int {
	if yearInRange(item.ParentIndex) {
		return item.ParentIndex
	}
	if item.SeasonID != "" {
		if n := seasonNumber(item.SeasonID); n != 0 {
			return n
		}
	}
	return yearFromName(item.Name)
}

// allLeagues returns the full league list, memoized for the session.
func (p *Provider) allLeagues(ctx context.Context) ([]sportsdb.League, error) {
	if leagues, ok := p.leagues.Load("all"); ok {
		return leagues, nil
	}
	leagues, err := p.api.AllLeagues(ctx)
	if err != nil {
		return nil, err
	}
	p.leagues.Store("all", leagues)
	return leagues, nil
}

// leagueSeasonEvents returns a league season's event list, memoized for
// the session so one library scan fetches each season once.
func (p *Provider) leagueSeasonEvents(ctx context.Context, leagueID, season string) ([]sportsdb.Event, error) {
	key := leagueID + "|" + season
	if events, ok := p.seasonEvents.Load(key); ok {
		return events, nil
	}
	events, err := p.api.SeasonEvents(ctx, leagueID, season)
	if err != nil {
		return nil, err
	}
	p.seasonEvents.Store(key, events)
	return events, nil
}

// TeamImages lists image URLs for a league's teams, for the host's image
// provider surface.
func (p *Provider) TeamImages(ctx context.Context, leagueID string) ([]Images, error) {
	if !p.cfg.Enabled || leagueID == "" {
		return nil, nil
	}
	teams, err := p.api.LeagueTeams(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	images := make([]Images, 0, len(teams))
	for _, team := range teams {
		img := Images{
			Badge:  team.Badge,
			Logo:   team.Logo,
			Banner: team.Banner,
		}
		if team.Fanart != "" {
			img.Fanart = []string{team.Fanart}
		}
		images = append(images, img)
	}
	return images, nil
}
