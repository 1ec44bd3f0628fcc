package interfaces

import (
	"context"

	"financial-analysis-agent/internal/types"
)

// QueryClassifier turns raw query text into a validated QueryResponse or a
// discriminated failure. One invocation makes at most one provider call.
type QueryClassifier interface {
	Classify(ctx context.Context, query string) (types.QueryResponse, error)
}
