package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
	"github.com/trebuchet-org/calldata-lens/internal/domain/config"
	"github.com/trebuchet-org/calldata-lens/internal/domain/layout"
	"github.com/trebuchet-org/calldata-lens/internal/domain/signature"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Color styles for decoded calldata
var (
	labelStyle     = color.New(color.Bold)
	selectorStyle  = color.New(color.FgRed, color.Bold)
	signatureStyle = color.New(color.FgHiWhite, color.Bold)
	familyStyle    = color.New(color.FgCyan)
	offsetStyle    = color.New(color.FgYellow, color.Underline)
	gapStyle       = color.New(color.Faint)
	rowLabelStyle  = color.New(color.Faint)
	hintStyle      = color.New(color.Faint)
	fallbackStyle  = color.New(color.FgYellow)

	paramPalette = []*color.Color{
		color.New(color.FgCyan),
		color.New(color.FgGreen),
		color.New(color.FgMagenta),
		color.New(color.FgBlue),
		color.New(color.FgHiYellow),
		color.New(color.FgHiCyan),
	}
)

// minHintMagnitude is the smallest integer that gets an 18-decimal amount hint.
var minHintMagnitude = decimal.New(1, 12)

// DecodeRenderer renders decoded calldata.
type DecodeRenderer struct {
	out    io.Writer
	format config.OutputFormat
}

// NewDecodeRenderer creates a new decode renderer
func NewDecodeRenderer(out io.Writer, format config.OutputFormat) *DecodeRenderer {
	return &DecodeRenderer{out: out, format: format}
}

type decodeView struct {
	Calldata   string                      `json:"calldata" yaml:"calldata"`
	Selector   string                      `json:"selector" yaml:"selector"`
	Signature  string                      `json:"signature" yaml:"signature"`
	Family     string                      `json:"family,omitempty" yaml:"family,omitempty"`
	Resolution domain.Resolution           `json:"resolution" yaml:"resolution"`
	Candidates []domain.SignatureCandidate `json:"candidates" yaml:"candidates"`
	Parameters []domain.Parameter          `json:"parameters" yaml:"parameters"`
	Segments   []domain.Segment            `json:"segments" yaml:"segments"`
	Remembered bool                        `json:"remembered" yaml:"remembered"`
}

func newDecodeView(result *usecase.DecodeResult) decodeView {
	view := decodeView{
		Calldata:   result.Calldata.Prefixed(),
		Selector:   result.Calldata.Selector,
		Signature:  result.Resolution.Signature,
		Resolution: result.Resolution,
		Candidates: result.Candidates,
		Parameters: result.Parameters,
		Segments:   result.Segments,
		Remembered: result.Remembered,
	}
	if result.Pattern != nil {
		view.Family = result.Pattern.Family
	}
	return view
}

// Render writes one decode result.
func (r *DecodeRenderer) Render(result *usecase.DecodeResult) error {
	if IsStructured(r.format) {
		return WriteStructured(r.out, r.format, newDecodeView(result))
	}

	r.renderHeader(result)
	fmt.Fprintln(r.out)
	r.renderCalldata(result)
	if len(result.Parameters) > 0 {
		fmt.Fprintln(r.out)
		r.renderParameters(result)
	}
	return nil
}

// RenderMany writes a batch of results. Structured formats emit one list.
func (r *DecodeRenderer) RenderMany(results []*usecase.DecodeResult) error {
	if IsStructured(r.format) {
		views := make([]decodeView, len(results))
		for i, res := range results {
			views[i] = newDecodeView(res)
		}
		return WriteStructured(r.out, r.format, views)
	}

	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(r.out, strings.Repeat("─", 72))
		}
		if err := r.Render(res); err != nil {
			return err
		}
	}
	return nil
}

func (r *DecodeRenderer) renderHeader(result *usecase.DecodeResult) {
	fmt.Fprintf(r.out, "%s  %s\n", labelStyle.Sprint("Selector "), selectorStyle.Sprint(result.Calldata.Selector))

	sig := signatureStyle.Sprint(signature.Canonical(result.Resolution.Signature))
	if result.Pattern != nil {
		sig += "  " + familyStyle.Sprint(FamilyLabel(*result.Pattern))
	}
	fmt.Fprintf(r.out, "%s  %s\n", labelStyle.Sprint("Signature"), sig)

	source := string(result.Resolution.Source)
	if n := len(result.Candidates); n > 1 {
		source = fmt.Sprintf("%s, %d candidates", source, n)
	}
	if result.Resolution.Fallback {
		source += ", " + fallbackStyle.Sprint("fallback")
	}
	if result.Remembered {
		source += ", remembered"
	}
	fmt.Fprintf(r.out, "%s  %s\n", labelStyle.Sprint("Resolved "), source)

	if !signature.Verify(result.Resolution.Signature, result.Calldata.Selector) {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s hashes to %s", signature.Canonical(result.Resolution.Signature), signature.Selector(result.Resolution.Signature))))
	}
}

// renderCalldata prints the tail one slot per row, colored by the segment that
// owns each character.
func (r *DecodeRenderer) renderCalldata(result *usecase.DecodeResult) {
	fmt.Fprintln(r.out, labelStyle.Sprint("Calldata"))
	fmt.Fprintf(r.out, "  %s  %s\n", rowLabelStyle.Sprint("0x0000"), selectorStyle.Sprint(strings.TrimPrefix(result.Calldata.Selector, "0x")))

	tail := result.Calldata.Tail
	chunks := layout.Annotate(tail, result.Segments)
	styles := paramStyles(result.Parameters)

	for row := 0; row < len(tail); row += layout.SlotWidth {
		end := min(row+layout.SlotWidth, len(tail))

		var line strings.Builder
		var labels []string
		for _, c := range chunks {
			cs, ce := max(c.Start, row), min(c.Start+len(c.Text), end)
			if cs >= ce {
				continue
			}
			line.WriteString(chunkStyle(c, styles).Sprint(c.Text[cs-c.Start : ce-c.Start]))
			if c.Segment != nil && c.Start >= row && c.Start < end {
				labels = append(labels, segmentLabel(*c.Segment))
			}
		}

		fmt.Fprintf(r.out, "  %s  %s", rowLabelStyle.Sprintf("0x%04x", domain.SelectorHexLen/2+row/2), line.String())
		if len(labels) > 0 {
			pad := strings.Repeat(" ", layout.SlotWidth-(end-row))
			fmt.Fprintf(r.out, "%s  %s", pad, hintStyle.Sprint(strings.Join(labels, ", ")))
		}
		fmt.Fprintln(r.out)
	}
}

func (r *DecodeRenderer) renderParameters(result *usecase.DecodeResult) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Format.Header = text.FormatUpper

	hints := make([]string, len(result.Parameters))
	withHints := false
	for i, p := range result.Parameters {
		hints[i] = AmountHint(p)
		withHints = withHints || hints[i] != ""
	}

	header := table.Row{"#", "Name", "Type", "Value", "Bytes"}
	if withHints {
		header = append(header, "Hint")
	}
	t.AppendHeader(header)

	styles := paramStyles(result.Parameters)
	for i, p := range result.Parameters {
		row := table.Row{
			i,
			styles[p.Name].Sprint(p.Name),
			p.Type,
			FormatValue(p.Value, p.Type),
			byteRange(p.Name, result.Segments),
		}
		if withHints {
			row = append(row, hintStyle.Sprint(hints[i]))
		}
		t.AppendRow(row)
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignLeft, WidthMax: 80},
	})
	t.Render()
}

// FamilyLabel returns a display label such as "ERC-20 TransferFrom".
func FamilyLabel(p signature.Pattern) string {
	return p.Family + " " + cases.Title(language.English, cases.NoLower).String(p.Name)
}

// AmountHint reads large unsigned integers as 18-decimal token amounts.
func AmountHint(p domain.Parameter) string {
	if !strings.HasPrefix(p.Type, "uint") || strings.HasSuffix(p.Type, "]") {
		return ""
	}
	s, ok := p.Value.(string)
	if !ok {
		return ""
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.LessThan(minHintMagnitude) {
		return ""
	}
	return fmt.Sprintf("≈ %s × 10^18", d.Shift(-18).Truncate(6).String())
}

func paramStyles(params []domain.Parameter) map[string]*color.Color {
	styles := make(map[string]*color.Color, len(params))
	for i, p := range params {
		styles[p.Name] = paramPalette[i%len(paramPalette)]
	}
	return styles
}

func chunkStyle(c domain.Chunk, styles map[string]*color.Color) *color.Color {
	switch c.Kind() {
	case domain.SegmentGap:
		return gapStyle
	case domain.SegmentOffset:
		return offsetStyle
	}
	if s, ok := styles[c.Segment.Name]; ok {
		return s
	}
	return gapStyle
}

func segmentLabel(s domain.Segment) string {
	switch s.Kind() {
	case domain.SegmentOffset:
		return fmt.Sprintf("%s offset=%d", s.Name, s.OffsetValue)
	case domain.SegmentDynamic:
		return s.Name + " data"
	default:
		return s.Name
	}
}

// byteRange returns the calldata byte range of the parameter's head slot.
func byteRange(name string, segments []domain.Segment) string {
	for _, s := range segments {
		if s.Name == name && (s.IsOffset || !s.IsDynamic) {
			base := domain.SelectorHexLen / 2
			return fmt.Sprintf("%d..%d", base+s.Start/2, base+s.End/2)
		}
	}
	return "-"
}
