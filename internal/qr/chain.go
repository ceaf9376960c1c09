package qr

import (
	"context"

	"go.uber.org/zap"
)

// Engine reads raw QR candidates from one page image. Implementations talk
// to an external decoder; the chain arbitrates between them.
type Engine interface {
	Name() string
	Read(ctx context.Context, imagePath string) ([]Detection, error)
}

// Chain consults its engines in order and returns the accepted candidates of
// the first engine that yields any after filtering. This is arbitration, not
// a merge: engine outputs are never combined, and nothing deduplicates a code
// that more than one engine can read. Duplicates, within one engine's output
// or across engines, pass through as-is.
type Chain struct {
	engines []Engine
}

// NewChain returns a chain over the given engines, in arbitration order.
func NewChain(engines ...Engine) *Chain {
	return &Chain{engines: engines}
}

// Read decodes the page at imagePath. The page dimensions drive the area
// share filter. A failing engine is skipped with a warning; QR reading is
// supplementary and must not abort page processing.
func (c *Chain) Read(ctx context.Context, imagePath string, imageWidth, imageHeight int) []Detection {
	for _, engine := range c.engines {
		candidates, err := engine.Read(ctx, imagePath)
		if err != nil {
			zap.S().Named("qr").Warnw("engine failed, trying next", "engine", engine.Name(), "image", imagePath, "error", err)
			continue
		}

		accepted := FilterCandidates(candidates, imageWidth, imageHeight)
		if len(accepted) > 0 {
			return accepted
		}
	}
	return nil
}
