package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ataraskov/pocket-registry/internal/browser"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8")).Padding(0, 1)
	valueStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// printLines writes one item per line, keeping list output pipe friendly
func printLines(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintln(w, item)
	}
}

// renderTagDetail prints the overview, extended information and pull command of a tag
func renderTagDetail(w io.Writer, d *browser.TagDetail) {
	fmt.Fprintln(w, sectionStyle.Render("Overview"))
	fmt.Fprintln(w, keyValueTable([][]string{
		{"Tag", d.Tag},
		{"Repository", d.Repo},
		{"Size", d.Size},
		{"Architecture", d.Architecture},
		{"OS", d.OS},
		{"Created", fmt.Sprintf("%s (%s)", d.CreatedDate, d.DaysAgo)},
	}))

	author := d.Author
	if author == "" {
		author = "Unknown"
	}
	fmt.Fprintln(w, sectionStyle.Render("Extended Information"))
	fmt.Fprintln(w, keyValueTable([][]string{
		{"Digest", d.Digest},
		{"Schema Version", fmt.Sprint(d.Version)},
		{"Layers", fmt.Sprint(d.Layers)},
		{"Author", author},
		{"Environment", bulletList(d.Env)},
		{"Entrypoint", bulletList(d.Entrypoint)},
	}))

	fmt.Fprintln(w, sectionStyle.Render("Pull"))
	fmt.Fprintln(w, d.PullCommand())
}

func keyValueTable(rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return labelStyle
			}
			return valueStyle
		}).
		Rows(rows...).
		Render()
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "Unknown"
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}
