package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
	"github.com/trebuchet-org/calldata-lens/internal/domain/config"
	"github.com/trebuchet-org/calldata-lens/internal/domain/signature"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

// HistoryRenderer renders remembered selections.
type HistoryRenderer struct {
	out    io.Writer
	format config.OutputFormat
}

// NewHistoryRenderer creates a new history renderer
func NewHistoryRenderer(out io.Writer, format config.OutputFormat) *HistoryRenderer {
	return &HistoryRenderer{out: out, format: format}
}

// Render writes the selection table.
func (r *HistoryRenderer) Render(records []*domain.SelectionRecord) error {
	if IsStructured(r.format) {
		if records == nil {
			records = []*domain.SelectionRecord{}
		}
		return WriteStructured(r.out, r.format, records)
	}

	if len(records) == 0 {
		fmt.Fprintln(r.out, "No remembered selections")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatUpper
	t.AppendHeader(table.Row{"Selector", "Signature", "Keccak", "Updated"})
	for _, rec := range records {
		t.AppendRow(table.Row{
			rec.Selector,
			rec.Signature,
			verifiedMark(signature.Verify(rec.Signature, rec.Selector)),
			timestampStyle.Sprint(rec.UpdatedAt.Local().Format("2006-01-02 15:04:05")),
		})
	}
	t.Render()
	return nil
}

// RenderSet reports a stored selection.
func (r *HistoryRenderer) RenderSet(result *usecase.SetSelectionResult) error {
	if IsStructured(r.format) {
		return WriteStructured(r.out, r.format, result.Record)
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Remembered %s for %s", result.Record.Signature, result.Record.Selector)))
	if !result.Verified {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s does not hash to %s", result.Record.Signature, result.Record.Selector)))
	}
	return nil
}

type forgetView struct {
	Removed []string `json:"removed" yaml:"removed"`
	Missing []string `json:"missing" yaml:"missing"`
}

// RenderForget reports removed selections.
func (r *HistoryRenderer) RenderForget(result *usecase.ForgetResult) error {
	if IsStructured(r.format) {
		view := forgetView{Removed: result.Removed, Missing: result.Missing}
		if view.Removed == nil {
			view.Removed = []string{}
		}
		if view.Missing == nil {
			view.Missing = []string{}
		}
		return WriteStructured(r.out, r.format, view)
	}
	for _, sel := range result.Removed {
		fmt.Fprintln(r.out, FormatSuccess("Forgot "+sel))
	}
	for _, sel := range result.Missing {
		fmt.Fprintln(r.out, FormatWarning("No selection remembered for "+sel))
	}
	return nil
}
