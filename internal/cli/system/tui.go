package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitstreak/internal/cli"
	"github.com/julianstephens/habitstreak/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	userID, err := ctx.UserID()
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(ctx.Ctx, ctx.Store, ctx.Sync, userID), tea.WithAltScreen(), tea.WithContext(ctx.Ctx))
	_, err = p.Run()
	return err
}
