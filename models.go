package sportsdb

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// League is a competition or series in the remote catalog. It maps 1:1 to a
// show in the host library. Every field may be absent on the wire.
type League struct {
	ID            string `json:"idLeague"`
	Name          string `json:"strLeague"`
	AlternateName string `json:"strLeagueAlternate"`
	Sport         string `json:"strSport"`
	Description   string `json:"strDescriptionEN"`
	Badge         string `json:"strBadge"`
	Logo          string `json:"strLogo"`
	Banner        string `json:"strBanner"`
	Poster        string `json:"strPoster"`
	Fanart1       string `json:"strFanart1"`
	Fanart2       string `json:"strFanart2"`
	Fanart3       string `json:"strFanart3"`
	Fanart4       string `json:"strFanart4"`
}

// Season is a year-scoped grouping of events within a league. The remote
// identifies seasons by name ("2024" or "2023-2024"), not by a numeric id.
type Season struct {
	Name     string `json:"strSeason"`
	LeagueID string `json:"idLeague"`
	Poster   string `json:"strPoster"`
}

// Event is a single scheduled occurrence (one race) within a season. It
// maps to an episode, with Round as the episode number.
type Event struct {
	ID          string `json:"idEvent"`
	Name        string `json:"strEvent"`
	LeagueID    string `json:"idLeague"`
	Season      string `json:"strSeason"`
	Round       string `json:"intRound"`
	Date        string `json:"dateEvent"`
	Time        string `json:"strTime"`
	Venue       string `json:"strVenue"`
	Country     string `json:"strCountry"`
	City        string `json:"strCity"`
	Description string `json:"strDescriptionEN"`
	Result      string `json:"strResult"`
	Poster      string `json:"strPoster"`
	Thumb       string `json:"strThumb"`
	Banner      string `json:"strBanner"`
	Fanart      string `json:"strFanart"`
}

// Team carries supplementary imagery for a league's participants.
type Team struct {
	ID          string `json:"idTeam"`
	Name        string `json:"strTeam"`
	Description string `json:"strDescriptionEN"`
	Badge       string `json:"strBadge"`
	Logo        string `json:"strLogo"`
	Banner      string `json:"strBanner"`
	Fanart      string `json:"strFanart1"`
}

// Driver carries supplementary imagery for an individual competitor.
type Driver struct {
	ID          string `json:"idPlayer"`
	Name        string `json:"strPlayer"`
	Description string `json:"strDescriptionEN"`
	Cutout      string `json:"strCutout"`
	Thumb       string `json:"strThumb"`
	Fanart      string `json:"strFanart1"`
}

// decodeList extracts the list wrapped under key in a response body and
// unmarshals it into out (a pointer to a slice). The remote wraps every
// list under a named top-level key and omits the key, or sets it to null,
// when there are no results; both decode to an empty list, never an error.
func decodeList(body []byte, key string, out any) error {
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("malformed response body")
	}
	value := gjson.GetBytes(body, key)
	if !value.Exists() || value.Type == gjson.Null {
		return nil
	}
	if !value.IsArray() {
		return fmt.Errorf("unexpected shape under %q", key)
	}
	if err := json.Unmarshal([]byte(value.Raw), out); err != nil {
		return fmt.Errorf("decoding %q list: %w", key, err)
	}
	return nil
}
