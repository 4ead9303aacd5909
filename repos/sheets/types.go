package sheets

import "strings"

// Competition values accepted by the schedule. Anything else in the sheet is
// carried through untouched, the bot only offers these three on creation.
const (
	CompetitionContinentalCup = "Continental Cup"
	CompetitionLegacyCup      = "Legacy Cup"
	CompetitionRegularSeason  = "Regular Season"
)

// Role is one of the four officiating duties on a match.
type Role string

const (
	RoleMainReferee  Role = "Main Referee"
	RoleCoverReferee Role = "Cover Referee"
	RoleMedia        Role = "Media"
	RoleStats        Role = "Stats"
)

// Roles in the order they appear in the sheet and in the announcement block.
var Roles = []Role{RoleMainReferee, RoleCoverReferee, RoleMedia, RoleStats}

// Sheet column layout, zero-based. Row 1 is the header; data starts at row 2.
const (
	colMatchID = iota
	colCompetition
	colRound
	colTeam1
	colTeam2
	colTime
	colAnnouncementID
	colMainReferee
	colCoverReferee
	colMedia
	colStats
	columnCount
)

// column returns the zero-based sheet column holding the role's user ID.
func (r Role) column() int {
	switch r {
	case RoleMainReferee:
		return colMainReferee
	case RoleCoverReferee:
		return colCoverReferee
	case RoleMedia:
		return colMedia
	case RoleStats:
		return colStats
	}
	return -1
}

// Match is one schedule row.
type Match struct {
	ID             string
	Competition    string
	Round          string
	Team1          string
	Team2          string
	Time           string
	AnnouncementID string
	MainReferee    string
	CoverReferee   string
	Media          string
	Stats          string
}

// FixedFields are the admin-editable columns. Assignments and the
// announcement reference are never written through this struct.
type FixedFields struct {
	Competition string
	Round       string
	Team1       string
	Team2       string
	Time        string
}

// Assignee returns the user ID holding the role, or "" when unclaimed.
func (m Match) Assignee(role Role) string {
	switch role {
	case RoleMainReferee:
		return m.MainReferee
	case RoleCoverReferee:
		return m.CoverReferee
	case RoleMedia:
		return m.Media
	case RoleStats:
		return m.Stats
	}
	return ""
}

// SetAssignee fills the role's field. It does not enforce write-once, the
// store does that at write time.
func (m *Match) SetAssignee(role Role, userID string) {
	switch role {
	case RoleMainReferee:
		m.MainReferee = userID
	case RoleCoverReferee:
		m.CoverReferee = userID
	case RoleMedia:
		m.Media = userID
	case RoleStats:
		m.Stats = userID
	}
}

func matchFromRow(row []interface{}) Match {
	return Match{
		ID:             cell(row, colMatchID),
		Competition:    cell(row, colCompetition),
		Round:          cell(row, colRound),
		Team1:          cell(row, colTeam1),
		Team2:          cell(row, colTeam2),
		Time:           cell(row, colTime),
		AnnouncementID: cell(row, colAnnouncementID),
		MainReferee:    cell(row, colMainReferee),
		CoverReferee:   cell(row, colCoverReferee),
		Media:          cell(row, colMedia),
		Stats:          cell(row, colStats),
	}
}

// appendRow is the full row written on creation. The announcement reference
// is back-filled once the embed message exists, assignments start empty.
func (m Match) appendRow() []interface{} {
	return []interface{}{m.ID, m.Competition, m.Round, m.Team1, m.Team2, m.Time, m.AnnouncementID}
}

// fixedRow rewrites columns A..F on update, keyed column included so the
// lookup key survives the write untouched.
func fixedRow(matchID string, f FixedFields) []interface{} {
	return []interface{}{matchID, f.Competition, f.Round, f.Team1, f.Team2, f.Time}
}

// cell reads a column from a values-API row. Trailing empty cells are simply
// absent from the response, so short rows are normal.
func cell(row []interface{}, col int) string {
	if col >= len(row) {
		return ""
	}
	s, ok := row[col].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// findRow locates the match by column A. Returns the zero-based offset into
// rows, or -1. When duplicate IDs exist the first row shadows the rest.
func findRow(rows [][]interface{}, matchID string) int {
	for i, row := range rows {
		if cell(row, colMatchID) == matchID {
			return i
		}
	}
	return -1
}

// columnLetter converts a zero-based column index to its A1 letter. The
// schedule fits in single letters (A..K).
func columnLetter(col int) string {
	return string(rune('A' + col))
}
