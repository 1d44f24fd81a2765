// Package render turns controller results into terminal output: styled
// tables for humans, nested JSON for machines. It is purely presentational;
// everything here is reproducible from the domain types.
package render

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bft-labs/htbctl/internal/domain"
)

// Palette: muted, dark-terminal friendly.
var (
	accent = lipgloss.Color("99")
	dim    = lipgloss.Color("243")
	faint  = lipgloss.Color("238")
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(accent).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(dim).Padding(0, 1)
)

// kvTable renders label/value rows with rounded borders.
func kvTable(rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(faint)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return labelStyle
			}
			return cellStyle
		}).
		Rows(rows...)
	return t.String()
}

// MachineTable renders one catalog entry as label/value rows.
func MachineTable(ref domain.MachineRef) string {
	return kvTable([][]string{
		{"Difficulty", ref.Difficulty},
		{"Name", ref.Name},
		{"ID", strconv.Itoa(ref.ID)},
	})
}

// DescriptorTable renders the active machine summary.
func DescriptorTable(d *domain.Descriptor) string {
	return kvTable([][]string{
		{"Difficulty", d.Details.Ref.Difficulty},
		{"Name", d.Details.Ref.Name},
		{"ID", strconv.Itoa(d.Details.Ref.ID)},
		{"IP", d.Active.Address},
	})
}

// SearchTable renders multiple catalog entries as one columnar table.
func SearchTable(refs []domain.MachineRef) string {
	rows := make([][]string, len(refs))
	for i, ref := range refs {
		rows[i] = []string{ref.Difficulty, ref.Name, strconv.Itoa(ref.ID), ref.OS}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(faint)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("Difficulty", "Name", "ID", "OS").
		Rows(rows...)
	return t.String()
}
