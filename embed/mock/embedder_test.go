package mock

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedTextDeterministic(t *testing.T) {
	embedder := NewEmbedder()

	first, err := embedder.EmbedText(context.Background(), "meet at the warehouse")
	require.NoError(t, err)
	second, err := embedder.EmbedText(context.Background(), "meet at the warehouse")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.Equal(t, 2, embedder.CallCount())
}

func TestEmbedTextProducesUnitVector(t *testing.T) {
	embedder := NewEmbedder()

	vector, err := embedder.EmbedText(context.Background(), "meet at the warehouse")
	require.NoError(t, err)

	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-4)
}

func TestEmbedTextsMatchesEmbedText(t *testing.T) {
	embedder := NewEmbedder()

	single, err := embedder.EmbedText(context.Background(), "call me back")
	require.NoError(t, err)
	batch, err := embedder.EmbedTexts(context.Background(), []string{"call me back", "other"})
	require.NoError(t, err)

	require.Len(t, batch, 2)
	assert.Equal(t, single, batch[0])
	assert.NotEqual(t, batch[0], batch[1])
}

func TestFuncFieldsOverrideDefaults(t *testing.T) {
	embedder := NewEmbedder()
	wantErr := errors.New("embedding service down")
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, wantErr
	}

	_, err := embedder.EmbedTexts(context.Background(), []string{"anything"})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, embedder.CallCount())
}
