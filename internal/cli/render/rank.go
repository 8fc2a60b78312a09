package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
	"github.com/trebuchet-org/calldata-lens/internal/domain/config"
	"github.com/trebuchet-org/calldata-lens/internal/domain/signature"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

var (
	chosenStyle      = color.New(color.FgGreen, color.Bold)
	verifiedStyle    = color.New(color.FgGreen)
	notVerifiedStyle = color.New(color.FgRed)
)

// RankRenderer renders the itemized scores of an offline ranking.
type RankRenderer struct {
	out    io.Writer
	format config.OutputFormat
}

// NewRankRenderer creates a new rank renderer
func NewRankRenderer(out io.Writer, format config.OutputFormat) *RankRenderer {
	return &RankRenderer{out: out, format: format}
}

type rankRowView struct {
	Signature string              `json:"signature" yaml:"signature"`
	Family    string              `json:"family,omitempty" yaml:"family,omitempty"`
	Breakdown signature.Breakdown `json:"breakdown" yaml:"breakdown"`
	Score     float64             `json:"score" yaml:"score"`
	Verified  bool                `json:"verified" yaml:"verified"`
}

type rankView struct {
	Calldata   string            `json:"calldata" yaml:"calldata"`
	Selector   string            `json:"selector" yaml:"selector"`
	Rows       []rankRowView     `json:"rows" yaml:"rows"`
	Resolution domain.Resolution `json:"resolution" yaml:"resolution"`
}

// Render writes the ranking table and the resolver's pick.
func (r *RankRenderer) Render(result *usecase.RankResult) error {
	if IsStructured(r.format) {
		view := rankView{
			Calldata:   result.Calldata.Prefixed(),
			Selector:   result.Calldata.Selector,
			Resolution: result.Resolution,
		}
		for _, row := range result.Rows {
			rv := rankRowView{Signature: row.Signature, Breakdown: row.Breakdown, Score: row.Score, Verified: row.Verified}
			if row.Breakdown.Pattern != nil {
				rv.Family = row.Breakdown.Pattern.Family
			}
			view.Rows = append(view.Rows, rv)
		}
		return WriteStructured(r.out, r.format, view)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatUpper
	t.AppendHeader(table.Row{"", "Signature", "Family", "Protocol", "Params", "Length", "Named", "Specific", "Score", "Selector"})

	for i, row := range result.Rows {
		marker := ""
		sig := row.Signature
		if i == result.Resolution.Index {
			marker = chosenStyle.Sprint("▸")
			sig = chosenStyle.Sprint(sig)
		}
		family := ""
		if row.Breakdown.Pattern != nil {
			family = FamilyLabel(*row.Breakdown.Pattern)
		}
		b := row.Breakdown
		t.AppendRow(table.Row{
			marker,
			sig,
			family,
			formatScore(b.Protocol),
			formatScore(b.Complexity),
			formatScore(b.LengthMatch),
			formatScore(b.Named),
			formatScore(b.Specific),
			formatScore(row.Score),
			verifiedMark(row.Verified),
		})
	}

	alignRight := make([]table.ColumnConfig, 0, 6)
	for col := 4; col <= 9; col++ {
		alignRight = append(alignRight, table.ColumnConfig{Number: col, Align: text.AlignRight})
	}
	t.SetColumnConfigs(alignRight)
	t.Render()

	fmt.Fprintf(r.out, "\nResolved %s via %s\n", chosenStyle.Sprint(result.Resolution.Signature), result.Resolution.Source)
	return nil
}

func formatScore(v float64) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("%+.1f", v)
}

func verifiedMark(ok bool) string {
	if ok {
		return verifiedStyle.Sprint("✓")
	}
	return notVerifiedStyle.Sprint("✗")
}
