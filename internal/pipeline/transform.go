package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/geo-distance-service/internal/domain"
)

// DistanceComputer performs one two-place distance lookup.
type DistanceComputer interface {
	ComputeDistance(ctx context.Context, place1, place2 string) domain.DistanceReport
}

// DistanceTransformer implements Transformer by running each request through
// the distance service. Failed lookups still produce a report message; only
// unparseable requests are transform errors.
type DistanceTransformer struct {
	svc    DistanceComputer
	logger *slog.Logger
}

// NewTransformer creates a DistanceTransformer backed by svc.
func NewTransformer(svc DistanceComputer, logger *slog.Logger) *DistanceTransformer {
	return &DistanceTransformer{
		svc:    svc,
		logger: logger,
	}
}

func (t *DistanceTransformer) Transform(ctx context.Context, raw domain.RawMessage) (domain.OutputMessage, error) {
	req, err := domain.ParseDistanceRequest(raw)
	if err != nil {
		return domain.OutputMessage{}, err
	}

	report := t.svc.ComputeDistance(ctx, req.From, req.To)
	if report.Status == domain.StatusFailed {
		t.logger.Debug("distance request failed", "request_id", req.ID, "failures", len(report.Failures))
	}

	return domain.SerializeReport(req.ID, report)
}
