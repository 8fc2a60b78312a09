package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/calldata-lens/internal/domain/config"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

var (
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	timestampStyle     = color.New(color.Faint)
	selectedStyle      = color.New(color.FgYellow)
)

// LookupRenderer renders directory candidates grouped by selector.
type LookupRenderer struct {
	out    io.Writer
	format config.OutputFormat
}

// NewLookupRenderer creates a new lookup renderer
func NewLookupRenderer(out io.Writer, format config.OutputFormat) *LookupRenderer {
	return &LookupRenderer{out: out, format: format}
}

type candidateView struct {
	ID            int64  `json:"id" yaml:"id"`
	TextSignature string `json:"textSignature" yaml:"textSignature"`
	CreatedAt     string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	Verified      bool   `json:"verified" yaml:"verified"`
	Selected      bool   `json:"selected" yaml:"selected"`
}

type lookupView struct {
	Selector   string          `json:"selector" yaml:"selector"`
	Candidates []candidateView `json:"candidates" yaml:"candidates"`
}

// Render writes every selector's candidates.
func (r *LookupRenderer) Render(result *usecase.LookupResult) error {
	if IsStructured(r.format) {
		views := make([]lookupView, 0, len(result.Entries))
		for _, e := range result.Entries {
			v := lookupView{Selector: e.Selector, Candidates: []candidateView{}}
			for _, c := range e.Candidates {
				cv := candidateView{ID: c.ID, TextSignature: c.TextSignature, Verified: c.Verified, Selected: c.Selected}
				if !c.CreatedAt.IsZero() {
					cv.CreatedAt = c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")
				}
				v.Candidates = append(v.Candidates, cv)
			}
			views = append(views, v)
		}
		return WriteStructured(r.out, r.format, views)
	}

	for i, e := range result.Entries {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		fmt.Fprintf(r.out, "%s  %s\n", sectionHeaderStyle.Sprint(e.Selector), timestampStyle.Sprintf("%d candidate(s)", len(e.Candidates)))
		if len(e.Candidates) == 0 {
			fmt.Fprintln(r.out, "  No signatures found")
			continue
		}

		t := table.NewWriter()
		t.SetOutputMirror(r.out)
		t.SetStyle(table.StyleLight)
		t.Style().Format.Header = text.FormatUpper
		t.AppendHeader(table.Row{"ID", "Signature", "Created", "Keccak", ""})
		for _, c := range e.Candidates {
			created := ""
			if !c.CreatedAt.IsZero() {
				created = timestampStyle.Sprint(c.CreatedAt.UTC().Format("2006-01-02"))
			}
			mark := ""
			if c.Selected {
				mark = selectedStyle.Sprint("★ selected")
			}
			t.AppendRow(table.Row{c.ID, c.TextSignature, created, verifiedMark(c.Verified), mark})
		}
		t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight}})
		t.Render()
	}
	return nil
}
