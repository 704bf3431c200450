package volume

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dhruvpatel3d/printquote-backend/pkg/enums"
)

// FileRef identifies an uploaded model file by its stored metadata. The
// upload pipeline itself lives outside this service.
type FileRef struct {
	Name      string
	SizeBytes int64
}

// Result is a measured or estimated model volume.
type Result struct {
	VolumeCC decimal.Decimal
	Method   enums.VolumeMethod
}

// Provider measures the volume of an uploaded model. Implementations may
// parse geometry or call an external service; failures are absorbed by the
// caller, which falls back to a size-based estimate.
type Provider interface {
	Measure(ctx context.Context, ref FileRef) (Result, error)
}

// bytesPerCC calibrates the deterministic size-based fallback: typical
// tessellated model files run around 30 KB per cm³ of printed part.
var bytesPerCC = decimal.NewFromInt(30000)

var minEstimateCC = decimal.NewFromInt(1)

// EstimateFromSize derives a provisional volume from the raw file size. The
// estimate is deterministic and never below 1 cm³ so a freshly uploaded
// line always prices to something visible.
func EstimateFromSize(sizeBytes int64) Result {
	estimate := decimal.NewFromInt(sizeBytes).Div(bytesPerCC).Round(2)
	if estimate.LessThan(minEstimateCC) {
		estimate = minEstimateCC
	}
	return Result{
		VolumeCC: estimate,
		Method:   enums.VolumeMethodEstimated,
	}
}

// SizeProvider is the default Provider when no geometry parser is wired. It
// re-derives the size-based estimate, so refinement keeps lines stable
// rather than improving them.
type SizeProvider struct{}

func (SizeProvider) Measure(_ context.Context, ref FileRef) (Result, error) {
	return EstimateFromSize(ref.SizeBytes), nil
}
