// Package output provides colored terminal output helpers for the CLI.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	reset  = "\033[0m"
	green  = "\033[32;1m"
	red    = "\033[31;1m"
	cyan   = "\033[36m"
	yellow = "\033[33m"
	bold   = "\033[1m"
)

func Success(format string, a ...interface{}) {
	fmt.Printf(green+"✓ "+format+reset+"\n", a...)
}

func Error(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, red+"✗ "+format+reset+"\n", a...)
}

func Info(format string, a ...interface{}) {
	fmt.Printf(cyan+format+reset+"\n", a...)
}

func Warn(format string, a ...interface{}) {
	fmt.Printf(yellow+"⚠ "+format+reset+"\n", a...)
}

func JSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *Table) Render() {
	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, header := range t.headers {
		fmt.Printf(bold+"%-*s"+reset+"  ", widths[i], header)
	}
	fmt.Println()

	for i := range t.headers {
		fmt.Print(strings.Repeat("-", widths[i]) + "  ")
	}
	fmt.Println()

	for _, row := range t.rows {
		for i, cell := range row {
			fmt.Printf("%-*s  ", widths[i], cell)
		}
		fmt.Println()
	}
}
