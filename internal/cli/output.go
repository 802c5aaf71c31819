package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// OutputFormatter writes command results in the selected format.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

func newFormatter(opts *RootOptions, w io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: w}
}

// Result prints v as JSON, or calls text to print it for humans.
func (f *OutputFormatter) Result(v any, text func(w io.Writer)) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(f.Writer)
	return nil
}

// Table prints rows under header, aligned in columns.
func (f *OutputFormatter) Table(header []string, rows [][]string) {
	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	printRow(tw, header)
	for _, row := range rows {
		printRow(tw, row)
	}
	tw.Flush()
}

func printRow(w io.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, cell)
	}
	fmt.Fprintln(w)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
