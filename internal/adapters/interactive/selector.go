package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
	"github.com/trebuchet-org/calldata-lens/internal/domain/config"
	"github.com/trebuchet-org/calldata-lens/internal/domain/signature"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

// ErrNonInteractive is returned when a prompt is needed but prompting is off.
var ErrNonInteractive = fmt.Errorf("interactive selection not available in non-interactive mode")

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectCandidate asks the user to pick one of candidates. scores, when
// index-aligned, are shown next to each option.
func (s *SelectorAdapter) SelectCandidate(ctx context.Context, candidates []domain.SignatureCandidate, scores []float64, prompt string) (int, error) {
	if s.config.NonInteractive {
		return 0, ErrNonInteractive
	}

	if len(candidates) == 0 {
		return 0, fmt.Errorf("no candidates provided for selection")
	}

	// If only one match, return it directly
	if len(candidates) == 1 {
		return 0, nil
	}

	options := formatCandidateOptions(candidates, scores)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, / to search, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:     prompt,
		Items:     options,
		Templates: templates,
		Size:      10,
		Searcher: createFuzzySearchFunc(lo.Map(candidates, func(c domain.SignatureCandidate, _ int) string {
			return c.TextSignature
		})),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return 0, fmt.Errorf("selection cancelled: %w", err)
	}

	return index, nil
}

// formatCandidateOptions renders "text_signature  score  #id" lines with a
// marker on candidates whose keccak doesn't match their selector.
func formatCandidateOptions(candidates []domain.SignatureCandidate, scores []float64) []string {
	options := make([]string, len(candidates))
	for i, c := range candidates {
		text := color.New(color.FgWhite, color.Bold).Sprint(c.TextSignature)

		var extras []string
		if len(scores) == len(candidates) {
			extras = append(extras, color.New(color.FgBlue).Sprintf("score %.1f", scores[i]))
		}
		if c.ID != 0 {
			extras = append(extras, fmt.Sprintf("#%d", c.ID))
		}
		if c.HexSignature != "" && !signature.Verify(c.TextSignature, c.HexSignature) {
			extras = append(extras, color.New(color.FgYellow).Sprint("[unverified]"))
		}

		if len(extras) > 0 {
			options[i] = fmt.Sprintf("%s (%s)", text, strings.Join(extras, ", "))
		} else {
			options[i] = text
		}
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
		if input == "" {
			return true
		}

		// Convert to lowercase for case-insensitive search
		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		// First try simple substring match
		if strings.Contains(item, input) {
			return true
		}

		// Then try fuzzy match
		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.CandidateSelector = (*SelectorAdapter)(nil)
