package matches

import "github.com/lalega/match-bot/repos/sheets"

// MatchResponse is the JSON shape of one schedule row. Assignment fields are
// empty strings while unclaimed, same as the sheet cells.
type MatchResponse struct {
	MatchID        string `json:"matchId"`
	Competition    string `json:"competition"`
	Round          string `json:"round"`
	Team1          string `json:"team1"`
	Team2          string `json:"team2"`
	Time           string `json:"time"`
	AnnouncementID string `json:"announcementId,omitempty"`
	MainReferee    string `json:"mainReferee,omitempty"`
	CoverReferee   string `json:"coverReferee,omitempty"`
	Media          string `json:"media,omitempty"`
	Stats          string `json:"stats,omitempty"`
}

func matchResponseFrom(m sheets.Match) MatchResponse {
	return MatchResponse{
		MatchID:        m.ID,
		Competition:    m.Competition,
		Round:          m.Round,
		Team1:          m.Team1,
		Team2:          m.Team2,
		Time:           m.Time,
		AnnouncementID: m.AnnouncementID,
		MainReferee:    m.MainReferee,
		CoverReferee:   m.CoverReferee,
		Media:          m.Media,
		Stats:          m.Stats,
	}
}
