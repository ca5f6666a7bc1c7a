package cmd

import (
	"fmt"
	"os"
	"strconv"

	appconvert "video-to-mp3/application/convert"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// RenderSummary renders the end-of-run counters followed by one row per failed file
func RenderSummary(summary *appconvert.Summary, styled bool) string {
	tw := table.NewWriter()
	if styled {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	tw.AppendHeader(table.Row{"Result", "Files"})
	tw.AppendRow(table.Row{"Converted", strconv.Itoa(summary.Converted)})
	tw.AppendRow(table.Row{"Skipped", strconv.Itoa(summary.Skipped)})
	tw.AppendRow(table.Row{"Failed", strconv.Itoa(summary.Failed)})
	tw.AppendFooter(table.Row{"Total", strconv.Itoa(summary.Total())})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	rendered := tw.Render()

	failures := summary.Failures()
	if len(failures) == 0 {
		return rendered
	}

	fw := table.NewWriter()
	if styled {
		fw.SetStyle(table.StyleRounded)
	} else {
		fw.SetStyle(table.StyleDefault)
	}
	fw.SetTitle("Failed conversions")
	fw.AppendHeader(table.Row{"Source", "Error"})
	for _, o := range failures {
		fw.AppendRow(table.Row{o.Request.SourcePath, o.Err.Error()})
	}

	return fmt.Sprintf("%s\n%s", rendered, fw.Render())
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w OutputWriter) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
