// Package sheets is the match store. The league spreadsheet is the system of
// record: one row per match, header in row 1, columns A..K as laid out in
// types.go. Every mutation here is a fresh read followed by a write against
// the values API; there is no transaction, so two processes racing on the
// same cell can still lose an update. The bot serializes its own claim
// writes per match (see services/claims), the cross-process window stays.
package sheets

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strconv"

	"golang.org/x/xerrors"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrRoleTaken      = errors.New("role already assigned")
	ErrNoAnnouncement = errors.New("match has no announcement message")
)

// Service reads and writes the schedule sheet.
type Service struct {
	api           *gsheets.Service
	spreadsheetID string
	sheetName     string
	sheetID       int64
}

// NewService builds the Sheets client from service-account credentials and
// resolves the numeric sheet ID for the named tab (the row-delete request
// wants the ID, not the title).
func NewService(ctx context.Context, credentialsJSON []byte, spreadsheetID, sheetName string) (*Service, error) {
	api, err := gsheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, xerrors.Errorf("create sheets client: %w", err)
	}

	meta, err := api.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, xerrors.Errorf("fetch spreadsheet %s: %w", spreadsheetID, err)
	}

	sheetID := int64(-1)
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == sheetName {
			sheetID = sh.Properties.SheetId
			break
		}
	}
	if sheetID < 0 {
		return nil, xerrors.Errorf("spreadsheet has no sheet named %q", sheetName)
	}

	return &Service{
		api:           api,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		sheetID:       sheetID,
	}, nil
}

// Append adds the match as a new row and returns the 1-based sheet row it
// landed on. Assignments start empty; the announcement reference column is
// written as-is (usually "" at this point, back-filled by SetAnnouncementRef
// once the embed message exists).
func (s *Service) Append(ctx context.Context, m Match) (int, error) {
	vr := &gsheets.ValueRange{Values: [][]interface{}{m.appendRow()}}
	resp, err := s.api.Spreadsheets.Values.Append(s.spreadsheetID, s.a1("A2"), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return 0, xerrors.Errorf("append match %s: %w", m.ID, err)
	}
	if resp.Updates == nil {
		return 0, xerrors.Errorf("append match %s: response carried no update range", m.ID)
	}
	row, err := rowFromRange(resp.Updates.UpdatedRange)
	if err != nil {
		return 0, xerrors.Errorf("append match %s: %w", m.ID, err)
	}
	return row, nil
}

// SetAnnouncementRef back-fills the message ID column of an existing row.
// Called once per match, right after the announcement is posted.
func (s *Service) SetAnnouncementRef(ctx context.Context, row int, messageID string) error {
	rng := s.a1(columnLetter(colAnnouncementID) + strconv.Itoa(row))
	vr := &gsheets.ValueRange{Values: [][]interface{}{{messageID}}}
	_, err := s.api.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return xerrors.Errorf("set announcement ref on row %d: %w", row, err)
	}
	return nil
}

// FindByID fetches the whole table and returns the first row whose key
// matches, together with its 1-based sheet row number.
func (s *Service) FindByID(ctx context.Context, matchID string) (Match, int, error) {
	rows, err := s.fetchRows(ctx)
	if err != nil {
		return Match{}, 0, err
	}
	i := findRow(rows, matchID)
	if i < 0 {
		return Match{}, 0, ErrMatchNotFound
	}
	return matchFromRow(rows[i]), i + 2, nil
}

// List returns every match in sheet order (insertion order, nothing ever
// reorders rows).
func (s *Service) List(ctx context.Context) ([]Match, error) {
	rows, err := s.fetchRows(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]Match, 0, len(rows))
	for _, row := range rows {
		if cell(row, colMatchID) == "" {
			continue
		}
		matches = append(matches, matchFromRow(row))
	}
	return matches, nil
}

// UpdateFixedFields rewrites columns A..F of the match's row. Assignment
// columns and the announcement reference are outside the written range and
// therefore untouched.
func (s *Service) UpdateFixedFields(ctx context.Context, matchID string, f FixedFields) (Match, error) {
	rows, err := s.fetchRows(ctx)
	if err != nil {
		return Match{}, err
	}
	i := findRow(rows, matchID)
	if i < 0 {
		return Match{}, ErrMatchNotFound
	}
	row := i + 2

	rng := s.a1("A" + strconv.Itoa(row) + ":" + columnLetter(colTime) + strconv.Itoa(row))
	vr := &gsheets.ValueRange{Values: [][]interface{}{fixedRow(matchID, f)}}
	_, err = s.api.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return Match{}, xerrors.Errorf("update match %s: %w", matchID, err)
	}

	updated := matchFromRow(rows[i])
	updated.Competition = f.Competition
	updated.Round = f.Round
	updated.Team1 = f.Team1
	updated.Team2 = f.Team2
	updated.Time = f.Time
	return updated, nil
}

// UpdateAssignment writes a user ID into one role cell, but only if the cell
// is empty in a fresh read. This is a get-then-put, not a compare-and-set:
// it stops sequential double claims and, combined with the per-match
// serialization in the claim service, in-process races. A second bot process
// could still slip between the read and the write.
func (s *Service) UpdateAssignment(ctx context.Context, matchID string, role Role, userID string) (Match, error) {
	rows, err := s.fetchRows(ctx)
	if err != nil {
		return Match{}, err
	}
	i := findRow(rows, matchID)
	if i < 0 {
		return Match{}, ErrMatchNotFound
	}
	m := matchFromRow(rows[i])
	if m.AnnouncementID == "" {
		return Match{}, ErrNoAnnouncement
	}
	if m.Assignee(role) != "" {
		return Match{}, ErrRoleTaken
	}

	row := i + 2
	rng := s.a1(columnLetter(role.column()) + strconv.Itoa(row))
	vr := &gsheets.ValueRange{Values: [][]interface{}{{userID}}}
	_, err = s.api.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return Match{}, xerrors.Errorf("assign %s on match %s: %w", role, matchID, err)
	}

	m.SetAssignee(role, userID)
	return m, nil
}

// Delete removes the match's row. Rows below shift up, which is why row
// numbers are never cached anywhere. The announcement message is not touched
// here; the caller decides what happens to it.
func (s *Service) Delete(ctx context.Context, matchID string) (Match, error) {
	rows, err := s.fetchRows(ctx)
	if err != nil {
		return Match{}, err
	}
	i := findRow(rows, matchID)
	if i < 0 {
		return Match{}, ErrMatchNotFound
	}
	m := matchFromRow(rows[i])

	// Row 1 is the header, so data row i sits at sheet index i+1.
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			DeleteDimension: &gsheets.DeleteDimensionRequest{
				Range: &gsheets.DimensionRange{
					SheetId:    s.sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(i + 1),
					EndIndex:   int64(i + 2),
				},
			},
		}},
	}
	if _, err := s.api.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return Match{}, xerrors.Errorf("delete match %s: %w", matchID, err)
	}
	return m, nil
}

func (s *Service) fetchRows(ctx context.Context) ([][]interface{}, error) {
	resp, err := s.api.Spreadsheets.Values.Get(s.spreadsheetID, s.a1("A2:K")).Context(ctx).Do()
	if err != nil {
		log.Printf("Failed to read schedule sheet: %v\n", err)
		return nil, xerrors.Errorf("read schedule: %w", err)
	}
	return resp.Values, nil
}

func (s *Service) a1(ref string) string {
	return s.sheetName + "!" + ref
}

var trailingRow = regexp.MustCompile(`(\d+)$`)

// rowFromRange pulls the row number out of an updated range like
// "MATCHES!A7:G7".
func rowFromRange(updatedRange string) (int, error) {
	m := trailingRow.FindString(updatedRange)
	if m == "" {
		return 0, xerrors.Errorf("no row number in updated range %q", updatedRange)
	}
	return strconv.Atoi(m)
}
