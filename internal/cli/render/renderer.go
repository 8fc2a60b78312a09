package render

import (
	"github.com/trebuchet-org/calldata-lens/internal/domain"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

type Renderer[T any] interface {
	Render(result T) error
}

var (
	_ Renderer[*usecase.DecodeResult]    = (*DecodeRenderer)(nil)
	_ Renderer[*usecase.RankResult]      = (*RankRenderer)(nil)
	_ Renderer[*usecase.LookupResult]    = (*LookupRenderer)(nil)
	_ Renderer[[]*domain.SelectionRecord] = (*HistoryRenderer)(nil)
)
