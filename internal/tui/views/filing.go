package views

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/steuerklar/steuerklar/internal/filing"
	"github.com/steuerklar/steuerklar/internal/tui/models"
)

// RunFiling launches the interactive Steuererklärung wizard. It blocks until
// the user quits and returns the state the wizard was left in.
func RunFiling(deps models.FilingDeps) (filing.Snapshot, error) {
	model := models.NewFilingModel(deps)
	p := tea.NewProgram(model, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return filing.Snapshot{}, fmt.Errorf("filing wizard failed: %w", err)
	}

	fm, ok := finalModel.(models.FilingModel)
	if !ok {
		return model.Wizard().Snapshot(), nil
	}
	return fm.Wizard().Snapshot(), nil
}
