package classifier

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestImage writes a small PNG with a uniform fill color.
func writeTestImage(t *testing.T, path string, fill color.NRGBA) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// biasOnlyModel returns a model whose weights are all zero, so the output
// scores equal the biases for any input image.
func biasOnlyModel(biases []float32) *Model {
	layer := Layer{
		Weights: make([][]float32, len(biases)),
		Biases:  biases,
	}
	for i := range layer.Weights {
		layer.Weights[i] = make([]float32, inputLen)
	}
	return &Model{
		ID:     "test",
		Labels: []string{"Healthy", "Powdery", "Rust"},
		Layers: []Layer{layer},
	}
}

func TestService_Predict_LabelMapping(t *testing.T) {
	tests := []struct {
		name     string
		biases   []float32
		expected Label
	}{
		{
			name:     "index 0 wins",
			biases:   []float32{1, 0, 0},
			expected: LabelHealthy,
		},
		{
			name:     "index 1 wins",
			biases:   []float32{0, 2, 0},
			expected: LabelPowdery,
		},
		{
			name:     "index 2 wins",
			biases:   []float32{0, 0, 3},
			expected: LabelRust,
		},
		{
			name:     "tie broken by lowest index",
			biases:   []float32{5, 5, 5},
			expected: LabelHealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewWithModel(biasOnlyModel(tt.biases))

			path := filepath.Join(t.TempDir(), "leaf.png")
			writeTestImage(t, path, color.NRGBA{R: 120, G: 200, B: 90, A: 255})

			label, err := svc.Predict(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, label)
		})
	}
}

func TestService_Predict_Deterministic(t *testing.T) {
	svc := NewWithModel(GenerateModel(1))

	path := filepath.Join(t.TempDir(), "leaf.png")
	writeTestImage(t, path, color.NRGBA{R: 10, G: 180, B: 40, A: 255})

	first, err := svc.Predict(path)
	require.NoError(t, err)
	assert.Contains(t, []Label{LabelHealthy, LabelPowdery, LabelRust}, first)

	for i := 0; i < 3; i++ {
		again, err := svc.Predict(path)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// A fresh service with the same frozen weights agrees too, so the result
	// doesn't depend on the prediction cache.
	fresh := NewWithModel(GenerateModel(1))
	again, err := fresh.Predict(path)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestService_Predict_CorruptImage(t *testing.T) {
	svc := NewWithModel(GenerateModel(1))

	path := filepath.Join(t.TempDir(), "not-an-image.jpg")
	require.NoError(t, os.WriteFile(path, []byte("this is not image data"), 0o644))

	_, err := svc.Predict(path)
	assert.Error(t, err)
}

func TestService_Predict_MissingFile(t *testing.T) {
	svc := NewWithModel(GenerateModel(1))

	_, err := svc.Predict(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestArgmax(t *testing.T) {
	assert.Equal(t, 0, argmax([]float32{3, 2, 1}))
	assert.Equal(t, 2, argmax([]float32{-1, 0, 1}))
	assert.Equal(t, 0, argmax([]float32{1, 1, 1}))
	assert.Equal(t, 1, argmax([]float32{0, 2, 2}))
}
