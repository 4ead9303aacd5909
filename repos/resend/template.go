package resend

import (
	"fmt"
	"html"

	"github.com/lalega/match-bot/repos/sheets"
)

func matchTemplate(lead string, m sheets.Match) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            font-family: Arial, sans-serif;
            background-color: #f4f4f4;
            margin: 0;
            padding: 20px;
        }
        .container {
            background-color: #ffffff;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            box-shadow: 0 0 10px rgba(0,0,0,0.1);
        }
        td {
            padding: 4px 12px 4px 0;
        }
    </style>
</head>
<body>
    <div class="container">
        <p>%s</p>
        <table>
            <tr><td>Match ID</td><td>%s</td></tr>
            <tr><td>Competition</td><td>%s</td></tr>
            <tr><td>Round</td><td>%s</td></tr>
            <tr><td>Teams</td><td>%s vs %s</td></tr>
            <tr><td>Time</td><td>%s</td></tr>
            <tr><td>Announcement message</td><td>%s</td></tr>
        </table>
    </div>
</body>
</html>`,
		html.EscapeString(lead),
		html.EscapeString(m.ID),
		html.EscapeString(m.Competition),
		html.EscapeString(m.Round),
		html.EscapeString(m.Team1),
		html.EscapeString(m.Team2),
		html.EscapeString(m.Time),
		html.EscapeString(m.AnnouncementID),
	)
}
