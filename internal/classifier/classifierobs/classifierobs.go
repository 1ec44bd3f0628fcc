package classifierobs

import (
	"context"

	"financial-analysis-agent/internal/interfaces"
	"financial-analysis-agent/internal/logger"
	"financial-analysis-agent/internal/trace"
	"financial-analysis-agent/internal/types"
)

// observableClassifier wraps a QueryClassifier with logging and tracing
type observableClassifier struct {
	classifier interfaces.QueryClassifier
}

// Compile-time interface check
var _ interfaces.QueryClassifier = (*observableClassifier)(nil)

// Wrap wraps a classifier with observability middleware
func Wrap(classifier interfaces.QueryClassifier) interfaces.QueryClassifier {
	return &observableClassifier{classifier: classifier}
}

func (oc *observableClassifier) Classify(ctx context.Context, query string) (types.QueryResponse, error) {
	ctx, span := trace.StartSpan(ctx, "classifier.Classify")
	defer span.End()

	// Skip(1) variants report the actual caller, not this middleware
	logger.InfoSkip(ctx, 1, "Classifying query", "query", query)

	resp, err := oc.classifier.Classify(ctx, query)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Classification failed", err, "query", query)
		return types.QueryResponse{}, err
	}

	logger.InfoSkip(ctx, 1, "Query classified",
		"category", resp.Category,
		"symbols", resp.Entities.Symbols,
		"time_period", resp.Entities.TimePeriod,
		"events", resp.Entities.Events,
		"metrics", resp.Entities.Metrics,
	)
	return resp, nil
}
