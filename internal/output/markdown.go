package output

import (
	"io"

	md "github.com/nao1215/markdown"
)

// MarkdownFormatter outputs GitHub flavored markdown tables.
type MarkdownFormatter struct {
	// Heading is written as a level 1 header when set.
	Heading string
}

// Format outputs Data or a Report as markdown. Anything else falls back to JSON.
func (f *MarkdownFormatter) Format(w io.Writer, data any) error {
	var report Report
	switch v := data.(type) {
	case Report:
		report = v
	case Data:
		report.Add("", v)
	case *Data:
		report.Add("", *v)
	default:
		jsonFormatter := &JSONFormatter{Indent: "  "}
		return jsonFormatter.Format(w, data)
	}

	doc := md.NewMarkdown(w)
	if f.Heading != "" {
		doc.H1(f.Heading)
	}
	for _, section := range report.Sections {
		if section.Title != "" {
			doc.H2(section.Title)
		}
		if len(section.Data.Rows) == 0 {
			doc.PlainText("_none_")
			doc.LF()
			continue
		}
		doc.Table(md.TableSet{
			Header: section.Data.Headers,
			Rows:   section.Data.Rows,
		})
	}
	return doc.Build()
}
