package feeds

import (
	"context"
	"net/url"
)

const maxCricketMatches = 10

// CricketScore is one innings line.
type CricketScore struct {
	Runs    int     `json:"r"`
	Wickets int     `json:"w"`
	Overs   float64 `json:"o"`
	Inning  string  `json:"inning"`
}

// CricketMatch is a current match from CricketData.
type CricketMatch struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Status         string         `json:"status"`
	Venue          string         `json:"venue"`
	Date           string         `json:"date"`
	MatchType      string         `json:"matchType"`
	Teams          []string       `json:"teams"`
	Score          []CricketScore `json:"score"`
	SeriesID       string         `json:"series_id"`
	FantasyEnabled bool           `json:"fantasyEnabled"`
	BBBEnabled     bool           `json:"bbbEnabled"`
	HasSquad       bool           `json:"hasSquad"`
	MatchStarted   bool           `json:"matchStarted"`
	MatchEnded     bool           `json:"matchEnded"`
}

// CricketFeed is the /api/cricket/live response.
type CricketFeed struct {
	Matches []CricketMatch `json:"matches"`
	Total   int            `json:"total"`
	Message string         `json:"message,omitempty"`
}

type cricketResponse struct {
	Status string         `json:"status"`
	Data   []CricketMatch `json:"data"`
}

// Cricket returns up to ten current matches.
func (s *Service) Cricket(ctx context.Context) (*CricketFeed, error) {
	if s.cfg.CricketAPIKey == "" {
		return nil, &Error{Feed: "Cricket", Err: ErrNotConfigured}
	}
	feed, err := cached(ctx, s, "cricket", s.fetchCricket)
	if err != nil {
		s.logger.Error("Cricket API failed", "error", err)
		return nil, &Error{Feed: "Cricket", Err: err}
	}
	return feed, nil
}

func (s *Service) fetchCricket(ctx context.Context) (*CricketFeed, error) {
	q := url.Values{}
	q.Set("apikey", s.cfg.CricketAPIKey)
	q.Set("offset", "0")

	var resp cricketResponse
	if _, err := s.getJSON(ctx, s.cfg.CricketURL+"/v1/currentMatches?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		s.logger.Warn("Cricket API returned non-success", "status", resp.Status)
		return &CricketFeed{Matches: []CricketMatch{}, Message: "No live matches found"}, nil
	}

	data := resp.Data
	if len(data) > maxCricketMatches {
		data = data[:maxCricketMatches]
	}
	matches := make([]CricketMatch, 0, len(data))
	for _, m := range data {
		if m.Name == "" {
			continue
		}
		if m.Status == "" {
			m.Status = "Unknown"
		}
		if m.Teams == nil {
			m.Teams = []string{}
		}
		if m.Score == nil {
			m.Score = []CricketScore{}
		}
		matches = append(matches, m)
	}
	s.logger.Info("Cricket API returned matches", "count", len(matches))
	return &CricketFeed{Matches: matches, Total: len(matches)}, nil
}
