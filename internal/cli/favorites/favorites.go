package favorites

import (
	"fmt"

	"github.com/julianstephens/confmate/internal/cli"
	"github.com/julianstephens/confmate/internal/display"
)

type FavAddCmd struct {
	SessionID string `arg:"" help:"ID of the session to favorite."`
}

func (c *FavAddCmd) Run(ctx *cli.Context) error {
	result, updated, err := ctx.Agenda.AddFavorite(ctx.UserID, c.SessionID)
	if err != nil {
		return err
	}

	fmt.Println("Favorited session.")
	if !result.HasAgenda {
		return nil
	}
	switch {
	case updated:
		fmt.Println("Agenda updated with the new favorite.")
	case result.HasConflicts || result.Indeterminate:
		fmt.Print(display.ConflictReport(result))
		fmt.Println("Agenda left unchanged; rebuild to re-plan around this favorite.")
	default:
		fmt.Println("Session falls outside the agenda's date range; it will be considered on the next rebuild.")
	}
	return nil
}

type FavRemoveCmd struct {
	SessionID string `arg:"" help:"ID of the session to unfavorite."`
}

func (c *FavRemoveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Agenda.RemoveFavorite(ctx.UserID, c.SessionID); err != nil {
		return err
	}
	fmt.Println("Removed favorite. The freed slot stays open until the next rebuild.")
	return nil
}

type FavListCmd struct{}

func (c *FavListCmd) Run(ctx *cli.Context) error {
	sessions, err := ctx.Store.GetFavoriteSessions(ctx.UserID)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No favorites yet. Use 'confmate fav add <session-id>' to add one.")
		return nil
	}

	for _, session := range sessions {
		fmt.Printf("%s  %s-%s  %s (ID: %s)\n",
			session.Date, session.Start, session.End, session.Title, session.ID)
	}
	fmt.Printf("\n%d favorite(s)\n", len(sessions))
	return nil
}
