package sessions

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/confmate/internal/cli"
	"github.com/julianstephens/confmate/internal/models"
	"github.com/julianstephens/confmate/internal/utils"
)

type SessionAddCmd struct {
	Title       string `arg:"" help:"Session title."`
	Date        string `short:"d" help:"Session date (YYYY-MM-DD)." required:""`
	Start       string `short:"s" help:"Start time (HH:MM)." required:""`
	End         string `short:"e" help:"End time (HH:MM)." required:""`
	Location    string `short:"l" help:"Room or venue."`
	Track       string `short:"t" help:"Conference track."`
	Tags        string `help:"Comma-separated tags."`
	Speakers    string `help:"Comma-separated speaker names."`
	Description string `help:"Session description."`
}

func (c *SessionAddCmd) Validate() error {
	if !utils.ValidateDateFormat(c.Date) {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %s", c.Date)
	}
	if !utils.ValidateTimeFormat(c.Start) {
		return fmt.Errorf("invalid start time format (expected HH:MM): %s", c.Start)
	}
	if !utils.ValidateTimeFormat(c.End) {
		return fmt.Errorf("invalid end time format (expected HH:MM): %s", c.End)
	}

	start, _ := utils.ParseTimeToMinutes(c.Start)
	end, _ := utils.ParseTimeToMinutes(c.End)
	if end <= start {
		return fmt.Errorf("end time must be after start time")
	}
	return nil
}

func (c *SessionAddCmd) Run(ctx *cli.Context) error {
	session := models.Session{
		ID:          uuid.New().String(),
		Title:       c.Title,
		Description: c.Description,
		Date:        c.Date,
		Start:       c.Start,
		End:         c.End,
		Location:    c.Location,
		Track:       c.Track,
		Tags:        splitList(c.Tags),
		Speakers:    splitList(c.Speakers),
	}

	if err := ctx.Store.AddSession(session); err != nil {
		return err
	}

	fmt.Printf("Added session: %s (ID: %s)\n", c.Title, session.ID)
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
