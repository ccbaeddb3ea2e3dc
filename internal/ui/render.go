package ui

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// Format names one of the OUTPUT_FORMAT values the CLI accepts.
type Format string

const (
	FormatTable    Format = "table"
	FormatVertical Format = "vertical"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatXML      Format = "xml"
)

func ParseFormat(s string) Format {
	switch Format(strings.ToLower(s)) {
	case FormatVertical, FormatJSON, FormatYAML, FormatXML:
		return Format(strings.ToLower(s))
	default:
		return FormatTable
	}
}

// RenderStructured marshals v as JSON, YAML, or XML under an xmlRoot element
// name. Callers pass the already-shaped value (a slice or struct) they want
// serialized verbatim.
func RenderStructured(format Format, xmlRoot string, v any) (string, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		return string(b), err
	case FormatYAML:
		b, err := yaml.Marshal(v)
		return string(b), err
	case FormatXML:
		b, err := xml.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("<%s>\n%s\n</%s>", xmlRoot, b, xmlRoot), nil
	default:
		return "", fmt.Errorf("unsupported structured format %q", format)
	}
}

// RenderTable renders a header+rows grid as a bordered lipgloss table sized
// to GetWidth(); the same table is produced whether or not color is enabled.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return RenderMuted("(no results)")
	}
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Width(GetWidth())
	return t.String()
}

// RenderVertical renders each row as one line per header (the header padded
// to the widest header, two spaces, then the value), with a blank line
// between rows, for single-column terminals.
func RenderVertical(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return RenderMuted("(no results)")
	}
	var b strings.Builder
	width := 0
	for _, h := range headers {
		if len(h) > width {
			width = len(h)
		}
	}
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		for j, h := range headers {
			var val string
			if j < len(row) {
				val = row[j]
			}
			fmt.Fprintf(&b, "%-*s  %s\n", width, h, val)
		}
	}
	return b.String()
}

// Render dispatches to the right rendering for the active format. grid is
// used for table/vertical; structured is marshaled for json/yaml/xml.
func Render(format Format, headers []string, rows [][]string, xmlRoot string, structured any) (string, error) {
	switch format {
	case FormatJSON, FormatYAML, FormatXML:
		return RenderStructured(format, xmlRoot, structured)
	case FormatVertical:
		return RenderVertical(headers, rows), nil
	default:
		return RenderTable(headers, rows), nil
	}
}
