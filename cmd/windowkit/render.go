package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Width(22).Align(lipgloss.Right).PaddingRight(2)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeTable prints rows as a bordered table on a terminal and as aligned
// plain columns otherwise.
func writeTable(w io.Writer, headers []string, rows [][]string) {
	if !isTerminal(w) {
		writePlainTable(w, headers, rows)
		return
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

func writePlainTable(w io.Writer, headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// writeFields prints label/value pairs, styled on a terminal.
func writeFields(w io.Writer, fields [][2]string) {
	styled := isTerminal(w)
	for _, f := range fields {
		if styled {
			fmt.Fprintln(w, labelStyle.Render(f[0])+valueStyle.Render(f[1]))
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", f[0], f[1])
	}
}
