// Package report renders ranked match results for humans.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/codeGROOVE-dev/sociomatch/pkg/profile"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// Thresholds used to color overall scores.
const (
	StrongScore = 0.8
	WeakScore   = 0.5
)

// Writer renders results as an aligned table with a factor line per candidate.
type Writer struct {
	out    io.Writer
	colors map[string]*color.Color
}

// New creates a Writer. Colors are used only when useColor is true.
func New(out io.Writer, useColor bool) *Writer {
	colors := map[string]*color.Color{
		"header": color.New(color.FgWhite, color.Bold),
		"strong": color.New(color.FgGreen, color.Bold),
		"medium": color.New(color.FgYellow),
		"weak":   color.New(color.FgRed),
		"factor": color.New(color.FgCyan),
		"dim":    color.New(color.Faint),
	}
	for _, c := range colors {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return &Writer{out: out, colors: colors}
}

// IsTerminal returns true if f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// Write prints results in the order given.
func (w *Writer) Write(results []profile.MatchResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w.out, "No candidate profiles.")
		return err
	}

	headers := []string{"#", "SCORE", "PLATFORM", "USERNAME", "DISPLAY NAME"}
	rows := make([][]string, 0, len(results))
	for i, r := range results {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%.2f", r.Score),
			r.Profile.Platform,
			r.Profile.Username,
			r.Profile.DisplayName,
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	var b strings.Builder
	b.WriteString(w.colors["header"].Sprint(joinPadded(headers, widths)))
	b.WriteByte('\n')

	for i, row := range rows {
		cells := padCells(row, widths)
		cells[1] = w.scoreColor(results[i].Score).Sprint(cells[1])
		b.WriteString(strings.TrimRight(strings.Join(cells, "  "), " "))
		b.WriteByte('\n')
		b.WriteString("    ")
		b.WriteString(w.factorLine(results[i].Factors))
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w.out, b.String())
	return err
}

func (w *Writer) scoreColor(score float64) *color.Color {
	switch {
	case score >= StrongScore:
		return w.colors["strong"]
	case score >= WeakScore:
		return w.colors["medium"]
	default:
		return w.colors["weak"]
	}
}

func (w *Writer) factorLine(factors profile.Factors) string {
	if len(factors) == 0 {
		return w.colors["dim"].Sprint("no comparable fields")
	}
	var parts []string
	for _, f := range profile.FactorOrder {
		v, ok := factors[f]
		if !ok {
			continue
		}
		parts = append(parts, w.colors["factor"].Sprint(string(f))+"="+fmt.Sprintf("%.2f", v))
	}
	return strings.Join(parts, " ")
}

func joinPadded(cells []string, widths []int) string {
	return strings.TrimRight(strings.Join(padCells(cells, widths), "  "), " ")
}

// padCells pads every cell but the last to its column width.
func padCells(cells []string, widths []int) []string {
	padded := make([]string, len(cells))
	for i, c := range cells {
		if i == len(cells)-1 {
			padded[i] = c
			continue
		}
		padded[i] = pad(c, widths[i])
	}
	return padded
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
