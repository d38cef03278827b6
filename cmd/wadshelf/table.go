package main

import (
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"wadshelf/internal/config"
	"wadshelf/internal/fields"
	"wadshelf/internal/views"
)

// noResultsText is shown instead of an empty table.
const noResultsText = "No Results Found"

// charsPerWidthUnit converts stored column widths (pixels in the launcher
// grid) to terminal characters.
const charsPerWidthUnit = 6

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

type tableOptions struct {
	widths   []int
	maxWidth int
	styled   bool
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	return renderTableWith(headers, rows, aligns, tableOptions{styled: true})
}

func renderTableWith(headers []string, rows [][]string, aligns []columnAlignment, opts tableOptions) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	if opts.styled {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	// Keep field titles as written.
	tw.Style().Format.Header = text.FormatDefault
	if opts.maxWidth > 0 {
		tw.SetAllowedRowLength(opts.maxWidth)
	}

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		cc := table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		}
		if i < len(opts.widths) && opts.widths[i] > 0 {
			cc.WidthMax = opts.widths[i]
		}
		columnConfigs = append(columnConfigs, cc)
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderPage lays a view page out by its resolved columns.
func renderPage(page views.Page, display config.Display, styled bool) string {
	if page.Result.NoResults || page.Result.Len() == 0 {
		return noResultsText
	}
	cols := page.Layout.Columns
	headers := make([]string, len(cols))
	aligns := make([]columnAlignment, len(cols))
	widths := make([]int, len(cols))
	for i, col := range cols {
		headers[i] = col.Field.Title + col.Sort.Marker()
		widths[i] = max(4, col.Width/charsPerWidthUnit)
		switch col.Field.Kind {
		case fields.KindInteger, fields.KindFloat, fields.KindDuration:
			aligns[i] = alignRight
		}
	}
	rows := make([][]string, 0, page.Result.Len())
	for _, record := range page.Result.Records {
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = record.Text(col.Field.Key, display.DateFormat)
		}
		rows = append(rows, row)
	}
	return renderTableWith(headers, rows, aligns, tableOptions{widths: widths, maxWidth: display.MaxWidth, styled: styled})
}

// pageJSON is the --json shape of a view page.
type pageJSON struct {
	View      string           `json:"view"`
	RequestID string           `json:"request_id"`
	Columns   []string         `json:"columns"`
	Records   []map[string]any `json:"records"`
}

func newPageJSON(page views.Page) pageJSON {
	out := pageJSON{
		View:      page.View.Name,
		RequestID: page.RequestID,
		Columns:   make([]string, len(page.Layout.Columns)),
		Records:   make([]map[string]any, 0, page.Result.Len()),
	}
	for i, col := range page.Layout.Columns {
		out.Columns[i] = string(col.Field.Key)
	}
	for _, record := range page.Result.Records {
		values := map[string]any{"id": record.ID}
		for _, key := range out.Columns {
			v := record.Values[fields.Key(key)]
			if d, ok := v.(time.Duration); ok {
				v = int64(d / time.Second)
			}
			values[key] = v
		}
		out.Records = append(out.Records, values)
	}
	return out
}

func shouldStyle(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
