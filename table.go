package sigscan

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"

	"github.com/decibelcooper/sigscan/scan"
)

// WriteTable prints one row per mass: significance and local p-value.
func WriteTable(w io.Writer, rec scan.Record) error {
	rows := make([][]string, 0, len(rec))
	for _, m := range rec.Masses() {
		z := rec[m]
		rows = append(rows, []string{
			fmt.Sprintf("%d", m),
			fmt.Sprintf("%.3f", z),
			fmt.Sprintf("%.3g", PValue(z)),
		})
	}

	right := lipgloss.NewStyle().Align(lipgloss.Right)
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col > 0 {
				return right.PaddingLeft(1)
			}
			return right
		}).
		Headers("mass", "Z", "p0").
		BorderHeader(false).
		Rows(rows...)

	_, err := fmt.Fprintln(w, t)
	return err
}
