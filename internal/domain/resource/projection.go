package resource

import (
	"encoding/json"
	"fmt"
)

// Each resource type maps a fixed subset of upstream fields into typed
// columns. The complete raw payload is stored alongside the projection, so
// fields not modeled here are never lost.

type continentFields struct {
	Name *string `json:"name"`
	Code *string `json:"code"`
}

type countryFields struct {
	ContinentID *int64  `json:"continent_id"`
	Name        *string `json:"name"`
	Code        *string `json:"code"`
	ImagePath   *string `json:"image_path"`
}

type leagueFields struct {
	CountryID *int64  `json:"country_id"`
	Name      *string `json:"name"`
	Code      *string `json:"code"`
	ImagePath *string `json:"image_path"`
	Type      *string `json:"type"`
}

type seasonFields struct {
	LeagueID   *int64  `json:"league_id"`
	Name       *string `json:"name"`
	Code       *string `json:"code"`
	StartingAt *string `json:"starting_at"`
	EndingAt   *string `json:"ending_at"`
}

type teamFields struct {
	CountryID    *int64  `json:"country_id"`
	Name         *string `json:"name"`
	Code         *string `json:"code"`
	ImagePath    *string `json:"image_path"`
	NationalTeam bool    `json:"national_team"`
}

type venueFields struct {
	CountryID *int64  `json:"country_id"`
	Name      *string `json:"name"`
	City      *string `json:"city"`
	Capacity  *int64  `json:"capacity"`
	ImagePath *string `json:"image_path"`
}

type fixtureFields struct {
	LeagueID      *int64  `json:"league_id"`
	SeasonID      *int64  `json:"season_id"`
	VenueID       *int64  `json:"venue_id"`
	LocalteamID   *int64  `json:"localteam_id"`
	VisitorteamID *int64  `json:"visitorteam_id"`
	StartingAt    *string `json:"starting_at"`
	Type          *string `json:"type"`
	Status        *string `json:"status"`
	Note          *string `json:"note"`
}

type livescoreFields struct {
	FixtureID *int64  `json:"fixture_id"`
	LeagueID  *int64  `json:"league_id"`
	Status    *string `json:"status"`
	Type      *string `json:"type"`
	Note      *string `json:"note"`
}

type playerFields struct {
	CountryID    *int64  `json:"country_id"`
	Firstname    *string `json:"firstname"`
	Lastname     *string `json:"lastname"`
	Fullname     *string `json:"fullname"`
	ImagePath    *string `json:"image_path"`
	DateOfBirth  *string `json:"dateofbirth"`
	BattingStyle *string `json:"battingstyle"`
	BowlingStyle *string `json:"bowlingstyle"`
	PositionName *string `json:"position_name"`
}

type playerPayload struct {
	playerFields
	Position *struct {
		Name *string `json:"name"`
	} `json:"position"`
}

type officialFields struct {
	CountryID   *int64  `json:"country_id"`
	Firstname   *string `json:"firstname"`
	Lastname    *string `json:"lastname"`
	Fullname    *string `json:"fullname"`
	DateOfBirth *string `json:"dateofbirth"`
}

type stageFields struct {
	SeasonID *int64  `json:"season_id"`
	LeagueID *int64  `json:"league_id"`
	Name     *string `json:"name"`
	Type     *string `json:"type"`
}

// Project extracts the typed column subset for this resource type out of the
// raw upstream record. Types without modeled columns (positions, scores)
// project an empty object.
func (t Type) Project(payload json.RawMessage) (json.RawMessage, error) {
	var fields any

	switch t {
	case Continents:
		fields = &continentFields{}
	case Countries:
		fields = &countryFields{}
	case Leagues:
		fields = &leagueFields{}
	case Seasons:
		fields = &seasonFields{}
	case Teams:
		fields = &teamFields{}
	case Venues:
		fields = &venueFields{}
	case Fixtures:
		fields = &fixtureFields{}
	case Livescores:
		fields = &livescoreFields{}
	case Players:
		p := playerPayload{}
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("projecting %s record: %w", t, err)
		}
		if p.Position != nil {
			p.PositionName = p.Position.Name
		}
		return json.Marshal(p.playerFields)
	case Officials:
		fields = &officialFields{}
	case Stages:
		fields = &stageFields{}
	default:
		return json.RawMessage(`{}`), nil
	}

	if err := json.Unmarshal(payload, fields); err != nil {
		return nil, fmt.Errorf("projecting %s record: %w", t, err)
	}
	return json.Marshal(fields)
}

// RecordID pulls the upstream identifier out of a raw record.
func RecordID(payload json.RawMessage) (int64, error) {
	var envelope struct {
		ID *int64 `json:"id"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return 0, fmt.Errorf("decoding upstream record id: %w", err)
	}
	if envelope.ID == nil {
		return 0, fmt.Errorf("upstream record has no id")
	}
	return *envelope.ID, nil
}
