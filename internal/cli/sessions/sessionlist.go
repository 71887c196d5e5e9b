package sessions

import (
	"fmt"
	"strings"

	"github.com/julianstephens/confmate/internal/cli"
	"github.com/julianstephens/confmate/internal/models"
	"github.com/julianstephens/confmate/internal/utils"
)

type SessionListCmd struct {
	Date  string `short:"d" help:"Only show sessions on this date (YYYY-MM-DD)."`
	Track string `short:"t" help:"Only show sessions in this track."`
}

func (c *SessionListCmd) Validate() error {
	if c.Date != "" && !utils.ValidateDateFormat(c.Date) {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %s", c.Date)
	}
	return nil
}

func (c *SessionListCmd) Run(ctx *cli.Context) error {
	var sessions []models.Session
	var err error
	if c.Date != "" {
		sessions, err = ctx.Store.GetSessionsForDate(c.Date)
	} else {
		sessions, err = ctx.Store.GetAllSessions()
	}
	if err != nil {
		return err
	}

	if c.Track != "" {
		filtered := sessions[:0]
		for _, session := range sessions {
			if strings.EqualFold(session.Track, c.Track) {
				filtered = append(filtered, session)
			}
		}
		sessions = filtered
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	for _, session := range sessions {
		line := fmt.Sprintf("%s  %s-%s  %s", session.Date, session.Start, session.End, session.Title)
		if session.Location != "" {
			line += " @ " + session.Location
		}
		if session.Track != "" {
			line += fmt.Sprintf(" [%s]", session.Track)
		}
		fmt.Println(line)
		fmt.Printf("  ID: %s\n", session.ID)
	}
	fmt.Printf("\n%d session(s)\n", len(sessions))
	return nil
}
