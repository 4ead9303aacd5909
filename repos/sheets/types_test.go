package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchFromRowFull(t *testing.T) {
	row := []interface{}{"M1", "Legacy Cup", "3", "A", "B", "18:00 UTC", "123456", "u1", "u2", "u3", "u4"}
	m := matchFromRow(row)

	assert.Equal(t, "M1", m.ID)
	assert.Equal(t, "Legacy Cup", m.Competition)
	assert.Equal(t, "3", m.Round)
	assert.Equal(t, "A", m.Team1)
	assert.Equal(t, "B", m.Team2)
	assert.Equal(t, "18:00 UTC", m.Time)
	assert.Equal(t, "123456", m.AnnouncementID)
	assert.Equal(t, "u1", m.MainReferee)
	assert.Equal(t, "u2", m.CoverReferee)
	assert.Equal(t, "u3", m.Media)
	assert.Equal(t, "u4", m.Stats)
}

func TestMatchFromRowShort(t *testing.T) {
	// The values API drops trailing empty cells, a freshly created match
	// comes back as a 7-cell row.
	row := []interface{}{"M1", "Regular Season", "1", "A", "B", "20:00", "123456"}
	m := matchFromRow(row)

	assert.Equal(t, "123456", m.AnnouncementID)
	for _, role := range Roles {
		assert.Empty(t, m.Assignee(role), "role %s should be unclaimed", role)
	}
}

func TestFindRow(t *testing.T) {
	rows := [][]interface{}{
		{"M1", "Legacy Cup"},
		{"M2", "Regular Season"},
		{"M2", "Continental Cup"}, // duplicate key, first row shadows it
	}

	cases := []struct {
		matchID string
		want    int
	}{
		{"M1", 0},
		{"M2", 1},
		{"M3", -1},
		{"", -1},
	}
	for _, c := range cases {
		if got := findRow(rows, c.matchID); got != c.want {
			t.Errorf("findRow(%q) = %d, want %d", c.matchID, got, c.want)
		}
	}
}

func TestRoleColumns(t *testing.T) {
	cases := []struct {
		role   Role
		letter string
	}{
		{RoleMainReferee, "H"},
		{RoleCoverReferee, "I"},
		{RoleMedia, "J"},
		{RoleStats, "K"},
	}
	for _, c := range cases {
		if got := columnLetter(c.role.column()); got != c.letter {
			t.Errorf("column for %s = %s, want %s", c.role, got, c.letter)
		}
	}
}

func TestRowFromRange(t *testing.T) {
	row, err := rowFromRange("MATCHES!A7:G7")
	assert.NoError(t, err)
	assert.Equal(t, 7, row)

	row, err = rowFromRange("MATCHES!A13")
	assert.NoError(t, err)
	assert.Equal(t, 13, row)

	_, err = rowFromRange("MATCHES!A:G")
	assert.Error(t, err)
}

func TestAssigneeRoundTrip(t *testing.T) {
	var m Match
	for _, role := range Roles {
		assert.Empty(t, m.Assignee(role))
	}
	m.SetAssignee(RoleCoverReferee, "u9")
	assert.Equal(t, "u9", m.CoverReferee)
	assert.Equal(t, "u9", m.Assignee(RoleCoverReferee))
	assert.Empty(t, m.Assignee(RoleMainReferee))
}

func TestFixedRowKeepsKey(t *testing.T) {
	row := fixedRow("M1", FixedFields{
		Competition: CompetitionContinentalCup,
		Round:       "2",
		Team1:       "A",
		Team2:       "B",
		Time:        "19:00",
	})
	assert.Equal(t, []interface{}{"M1", "Continental Cup", "2", "A", "B", "19:00"}, row)
}

func TestCellToleratesJunk(t *testing.T) {
	row := []interface{}{" M1 ", 42, nil}
	assert.Equal(t, "M1", cell(row, 0))
	assert.Equal(t, "", cell(row, 1))
	assert.Equal(t, "", cell(row, 2))
	assert.Equal(t, "", cell(row, 10))
}
