package feeds

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sourcegraph/conc/iter"
)

const (
	maxMatchesPerCompetition = 5
	maxFootballMatches       = 20
)

// Competition is a tracked football-data.org league.
type Competition struct {
	Code   string
	Name   string
	NameEn string
}

// Competitions are fetched in this order.
var Competitions = []Competition{
	{Code: "PL", Name: "প্রিমিয়ার লিগ", NameEn: "Premier League"},
	{Code: "PD", Name: "লা লিগা", NameEn: "La Liga"},
	{Code: "CL", Name: "চ্যাম্পিয়ন্স লিগ", NameEn: "Champions League"},
	{Code: "BL1", Name: "বুন্দেসলিগা", NameEn: "Bundesliga"},
	{Code: "SA", Name: "সেরি আ", NameEn: "Serie A"},
}

var matchStatuses = map[string]string{
	"SCHEDULED": "আসন্ন",
	"TIMED":     "আসন্ন",
	"LIVE":      "লাইভ",
	"IN_PLAY":   "লাইভ",
	"PAUSED":    "বিরতি",
	"FINISHED":  "সম্পন্ন",
	"POSTPONED": "স্থগিত",
	"CANCELLED": "বাতিল",
}

// MatchStatus returns the Bengali label for a football-data.org status,
// or the status itself when it has none.
func MatchStatus(status string) string {
	if label, ok := matchStatuses[status]; ok {
		return label
	}
	return status
}

// IsLive reports whether a status means the match is being played.
func IsLive(status string) bool {
	switch status {
	case "LIVE", "IN_PLAY", "PAUSED":
		return true
	}
	return false
}

// FootballMatch is one fixture or result.
type FootballMatch struct {
	ID        int    `json:"id"`
	Teams     string `json:"teams"`
	TeamsEn   string `json:"teamsEn"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
	Status    string `json:"status"`
	StatusEn  string `json:"statusEn"`
	League    string `json:"league"`
	LeagueEn  string `json:"leagueEn"`
	Minute    *int   `json:"minute"`
	IsLive    bool   `json:"isLive"`
	UTCDate   string `json:"utcDate"`
}

// FootballFeed is the /api/football/live response. Total counts every
// fetched match, before the list is capped.
type FootballFeed struct {
	Matches []FootballMatch `json:"matches"`
	Total   int             `json:"total"`
}

type footballResponse struct {
	Matches []struct {
		ID       int    `json:"id"`
		Status   string `json:"status"`
		Minute   *int   `json:"minute"`
		UTCDate  string `json:"utcDate"`
		HomeTeam struct {
			Name string `json:"name"`
		} `json:"homeTeam"`
		AwayTeam struct {
			Name string `json:"name"`
		} `json:"awayTeam"`
		Score struct {
			FullTime struct {
				Home *int `json:"home"`
				Away *int `json:"away"`
			} `json:"fullTime"`
		} `json:"score"`
	} `json:"matches"`
}

// Football returns recent and live matches from the tracked competitions.
// A competition that fails is skipped.
func (s *Service) Football(ctx context.Context) (*FootballFeed, error) {
	if s.cfg.FootballAPIKey == "" {
		return nil, &Error{Feed: "Football", Err: ErrNotConfigured}
	}
	feed, err := cached(ctx, s, "football", s.fetchFootball)
	if err != nil {
		return nil, &Error{Feed: "Football", Err: err}
	}
	return feed, nil
}

func (s *Service) fetchFootball(ctx context.Context) (*FootballFeed, error) {
	perCompetition := iter.Map(Competitions, func(c *Competition) []FootballMatch {
		matches, err := s.fetchCompetition(ctx, *c)
		if err != nil {
			s.logger.Warn("Football competition fetch failed", "competition", c.Code, "error", err)
			return nil
		}
		return matches
	})

	matches := make([]FootballMatch, 0, maxFootballMatches)
	total := 0
	for _, ms := range perCompetition {
		total += len(ms)
		matches = append(matches, ms...)
	}
	if len(matches) > maxFootballMatches {
		matches = matches[:maxFootballMatches]
	}
	s.logger.Info("Football API returned matches", "count", total)
	return &FootballFeed{Matches: matches, Total: total}, nil
}

func (s *Service) fetchCompetition(ctx context.Context, c Competition) ([]FootballMatch, error) {
	url := fmt.Sprintf("%s/v4/competitions/%s/matches?status=SCHEDULED,LIVE,IN_PLAY,PAUSED,FINISHED", s.cfg.FootballURL, c.Code)
	header := http.Header{"X-Auth-Token": []string{s.cfg.FootballAPIKey}}

	var resp footballResponse
	status, err := s.getJSON(ctx, url, header, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", status)
	}

	raw := resp.Matches
	if len(raw) > maxMatchesPerCompetition {
		raw = raw[:maxMatchesPerCompetition]
	}
	matches := make([]FootballMatch, 0, len(raw))
	for _, m := range raw {
		home, away := m.HomeTeam.Name, m.AwayTeam.Name
		if home == "" {
			home = "Home"
		}
		if away == "" {
			away = "Away"
		}
		status := m.Status
		if status == "" {
			status = "SCHEDULED"
		}
		teams := home + " vs " + away
		matches = append(matches, FootballMatch{
			ID:        m.ID,
			Teams:     teams,
			TeamsEn:   teams,
			HomeScore: valueOrZero(m.Score.FullTime.Home),
			AwayScore: valueOrZero(m.Score.FullTime.Away),
			Status:    MatchStatus(status),
			StatusEn:  status,
			League:    c.Name,
			LeagueEn:  c.NameEn,
			Minute:    m.Minute,
			IsLive:    IsLive(status),
			UTCDate:   m.UTCDate,
		})
	}
	return matches, nil
}

func valueOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
