package qr_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docscanhq/docscan/internal/qr"
)

type fakeEngine struct {
	name       string
	candidates []qr.Detection
	err        error
	calls      int
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Read(ctx context.Context, imagePath string) ([]qr.Detection, error) {
	f.calls++
	return f.candidates, f.err
}

func TestChainPrimaryWins(t *testing.T) {
	primary := &fakeEngine{
		name:       "primary",
		candidates: []qr.Detection{{Text: "primary-code", Polygon: quad(100, 100, 100, 100)}},
	}
	fallback := &fakeEngine{
		name: "fallback",
		candidates: []qr.Detection{
			{Text: "fallback-one", Polygon: quad(100, 100, 100, 100)},
			{Text: "fallback-two", Polygon: quad(300, 300, 100, 100)},
		},
	}

	chain := qr.NewChain(primary, fallback)
	got := chain.Read(context.Background(), "page_001.jpg", 1000, 1000)

	require.Len(t, got, 1)
	assert.Equal(t, "primary-code", got[0].Text)
	assert.Equal(t, 0, fallback.calls, "fallback must not be consulted once the primary accepted a hit")
}

func TestChainFallsBackWhenPrimaryFiltersOut(t *testing.T) {
	// The primary only yields a candidate the filter rejects for its short
	// payload, so arbitration moves on.
	primary := &fakeEngine{
		name:       "primary",
		candidates: []qr.Detection{{Text: "ab", Polygon: quad(100, 100, 100, 100)}},
	}
	fallback := &fakeEngine{
		name:       "fallback",
		candidates: []qr.Detection{{Text: "fallback-code", Polygon: quad(100, 100, 100, 100)}},
	}

	chain := qr.NewChain(primary, fallback)
	got := chain.Read(context.Background(), "page_001.jpg", 1000, 1000)

	require.Len(t, got, 1)
	assert.Equal(t, "fallback-code", got[0].Text)
	assert.Equal(t, 1, primary.calls)
}

func TestChainSkipsFailingEngine(t *testing.T) {
	primary := &fakeEngine{name: "primary", err: errors.New("decoder unreachable")}
	fallback := &fakeEngine{
		name:       "fallback",
		candidates: []qr.Detection{{Text: "fallback-code", Polygon: quad(100, 100, 100, 100)}},
	}

	chain := qr.NewChain(primary, fallback)
	got := chain.Read(context.Background(), "page_001.jpg", 1000, 1000)

	require.Len(t, got, 1)
	assert.Equal(t, "fallback-code", got[0].Text)
}

func TestChainNoEngineYields(t *testing.T) {
	primary := &fakeEngine{name: "primary"}
	fallback := &fakeEngine{name: "fallback"}

	chain := qr.NewChain(primary, fallback)

	assert.Empty(t, chain.Read(context.Background(), "page_001.jpg", 1000, 1000))
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}
