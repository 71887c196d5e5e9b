package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/confmate/internal/cli"
	"github.com/julianstephens/confmate/internal/constants"
	"github.com/julianstephens/confmate/internal/storage"
	"github.com/julianstephens/confmate/internal/validation"
)

// ValidateCmd checks the session catalog and the active agenda for problems.
type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	validator := validation.New()

	sessions, err := ctx.Store.GetAllSessions()
	if err != nil {
		return err
	}
	fmt.Printf("Checking %d session(s)...\n", len(sessions))
	sessionResult := validator.ValidateSessions(sessions)
	fmt.Println(sessionResult.FormatReport())

	agenda, err := ctx.Store.GetActiveAgenda(ctx.UserID, constants.AgendaSourceAgent)
	if errors.Is(err, storage.ErrNoActiveAgenda) {
		fmt.Println("No active agenda to check.")
		if sessionResult.HasIssues() {
			return errors.New("validation found issues")
		}
		return nil
	}
	if err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	fmt.Printf("Checking agenda v%d...\n", agenda.Version)
	agendaResult := validator.ValidateAgenda(agenda, settings.MaxSessionMinutes)
	fmt.Println(agendaResult.FormatReport())

	if sessionResult.HasIssues() || agendaResult.HasIssues() {
		return errors.New("validation found issues")
	}
	return nil
}
