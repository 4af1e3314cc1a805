// Package report renders the battle log as a printable PDF.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/jwebster45206/deficit-slayer/pkg/battle"
	"github.com/jwebster45206/deficit-slayer/pkg/display"
	"github.com/jwebster45206/deficit-slayer/pkg/roster"
	"github.com/jwebster45206/deficit-slayer/pkg/state"
	"github.com/jwebster45206/deficit-slayer/pkg/view"
)

const (
	margin    = 40.0
	rowHeight = 16.0
)

var columns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 110, "L"},
	{"Monster", 170, "L"},
	{"Consumed", 80, "R"},
	{"Deficit", 80, "R"},
	{"Effect", 75, "C"},
}

// BattleLog renders gs's history, newest first, with a summary header.
func BattleLog(r *roster.Roster, gs state.GameState, generated time.Time) ([]byte, error) {
	v := view.Build(r, gs)

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle("Battle Log", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 24, "Battle Log", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 12, "Generated "+generated.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 11)
	current := "All monsters defeated"
	if v.Monster != nil {
		current = fmt.Sprintf("%s (%d of %d), HP %s", v.Monster.Name, v.MonsterNumber, v.MonsterCount, v.HPLabel)
	}
	summary := []string{
		"Current target: " + current,
		fmt.Sprintf("Total burned: %s of %s (%s)", v.TotalDeficitLabel, v.GoalLabel, v.ProgressLabel),
		fmt.Sprintf("Days logged: %d, baseline %s kcal", v.LogCount, display.Number(v.Baseline)),
	}
	for _, line := range summary {
		pdf.CellFormat(0, 14, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range columns {
		pdf.CellFormat(col.width, rowHeight, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	history := view.History(r, gs)
	if len(history) == 0 {
		pdf.CellFormat(0, rowHeight, "No battles recorded yet.", "", 1, "L", false, 0, "")
	}
	for _, h := range history {
		name := h.MonsterName
		if name == "" {
			name = fmt.Sprintf("#%d", h.MonsterID)
		}
		cells := []string{
			h.Date.Format("2006-01-02"),
			name,
			display.Number(h.CaloriesConsumed),
			display.SignedDeficit(h.Deficit),
			string(battle.Classify(h.Deficit)),
		}
		if h.Burned {
			pdf.SetTextColor(20, 120, 50)
		} else {
			pdf.SetTextColor(170, 30, 30)
		}
		for i, col := range columns {
			pdf.CellFormat(col.width, rowHeight, cells[i], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetTextColor(0, 0, 0)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render battle log: %w", err)
	}
	return buf.Bytes(), nil
}
