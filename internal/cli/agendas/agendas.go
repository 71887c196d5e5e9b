package agendas

import (
	"context"
	"fmt"

	"github.com/julianstephens/confmate/internal/cli"
	"github.com/julianstephens/confmate/internal/display"
)

type AgendaBuildCmd struct{}

func (c *AgendaBuildCmd) Run(ctx *cli.Context) error {
	agenda, err := ctx.Agenda.Build(context.Background(), ctx.UserID)
	if err != nil {
		return err
	}

	fmt.Print(display.Agenda(agenda))
	return nil
}

type AgendaShowCmd struct {
	Version int `short:"v" help:"Show a specific version instead of the latest."`
}

func (c *AgendaShowCmd) Run(ctx *cli.Context) error {
	agenda, err := ctx.Agenda.Fetch(ctx.UserID)
	if err != nil {
		return err
	}
	if agenda == nil {
		fmt.Println("No agenda yet. Run 'confmate agenda build' to create one.")
		return nil
	}

	if c.Version > 0 && c.Version != agenda.Version {
		version, err := ctx.Store.GetAgendaVersion(agenda.ID, c.Version)
		if err != nil {
			return err
		}
		fmt.Print(display.Agenda(version.Snapshot))
		return nil
	}

	fmt.Print(display.Agenda(*agenda))
	return nil
}

type AgendaVersionsCmd struct{}

func (c *AgendaVersionsCmd) Run(ctx *cli.Context) error {
	versions, err := ctx.Agenda.Versions(ctx.UserID)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Println("No versions recorded.")
		return nil
	}

	fmt.Print(display.Versions(versions))
	return nil
}

type AgendaDeleteCmd struct {
	Yes bool `short:"y" help:"Skip confirmation."`
}

func (c *AgendaDeleteCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		fmt.Print("Delete the active agenda and its full version history? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := ctx.Agenda.Delete(ctx.UserID); err != nil {
		return err
	}
	fmt.Println("Agenda and version history deleted.")
	return nil
}

// CheckCmd tests one session against the active agenda without changing it.
type CheckCmd struct {
	SessionID string `arg:"" help:"ID of the session to check."`
}

func (c *CheckCmd) Run(ctx *cli.Context) error {
	result, err := ctx.Agenda.ConflictCheck(ctx.UserID, c.SessionID)
	if err != nil {
		return err
	}

	fmt.Print(display.ConflictReport(result))
	return nil
}
