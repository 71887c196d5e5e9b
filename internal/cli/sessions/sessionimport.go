package sessions

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/julianstephens/confmate/internal/cli"
	"github.com/julianstephens/confmate/internal/models"
	"github.com/julianstephens/confmate/internal/validation"
)

// SessionImportCmd loads a session catalog from a JSON file. Entries with bad
// time data are reported but still imported; the conflict detector treats
// them as indeterminate rather than guessing.
type SessionImportCmd struct {
	File string `arg:"" help:"Path to a JSON file containing an array of sessions."`
}

func (c *SessionImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}

	var sessions []models.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return fmt.Errorf("failed to parse %s: %w", c.File, err)
	}
	if len(sessions) == 0 {
		return fmt.Errorf("no sessions found in %s", c.File)
	}

	result := validation.New().ValidateSessions(sessions)
	if result.HasIssues() {
		fmt.Println(result.FormatReport())
	}

	imported := 0
	for _, session := range sessions {
		if session.ID == "" {
			session.ID = uuid.New().String()
		}
		if err := ctx.Store.AddSession(session); err != nil {
			return fmt.Errorf("failed to import session %q: %w", session.Title, err)
		}
		imported++
	}

	fmt.Printf("Imported %d session(s) from %s\n", imported, c.File)
	return nil
}
