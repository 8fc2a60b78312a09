package progress

import (
	"context"

	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

// NopSink drops every event. Used for structured output and non-interactive runs.
type NopSink struct{}

var _ usecase.ProgressSink = (*NopSink)(nil)

func NewNopSink() usecase.ProgressSink {
	return &NopSink{}
}

func (n *NopSink) OnProgress(context.Context, usecase.ProgressEvent) {}

func (n *NopSink) Info(string) {}

func (n *NopSink) Error(string) {}
