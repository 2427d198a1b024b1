package classifier

import (
	"encoding/gob"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// InputSize is the spatial resolution the model expects. Images are resized
// to InputSize x InputSize with 3 channels before inference.
const InputSize = 225

// inputLen is the flattened tensor length fed into the first layer.
const inputLen = InputSize * InputSize * 3

// Layer is one dense layer of the frozen network. Weights is row-major:
// Weights[i] holds the input weights of output unit i.
type Layer struct {
	Weights [][]float32
	Biases  []float32
}

// Model is the frozen classifier artifact. It is loaded once at startup and
// never mutated, so it is safe for concurrent inference.
type Model struct {
	// ID identifies the exported artifact, mostly for log correlation.
	ID string
	// Labels maps output indices to class names.
	Labels []string
	// Layers are applied in order with ReLU between hidden layers and no
	// activation on the output layer.
	Layers []Layer
}

// LoadModel reads a gob-encoded model artifact from disk and checks its
// shape against the fixed input contract.
func LoadModel(path string) (*Model, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var m Model
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", path, err)
	}
	return &m, nil
}

// SaveModel writes a gob-encoded model artifact, creating parent
// directories as needed.
func SaveModel(path string, m *Model) error {
	if err := m.validate(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create model directory: %w", err)
		}
	}
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("failed to create model artifact: %w", err)
	}
	defer f.Close() //nolint:errcheck
	return gob.NewEncoder(f).Encode(m)
}

func (m *Model) validate() error {
	if len(m.Layers) == 0 {
		return fmt.Errorf("model has no layers")
	}
	if len(m.Labels) == 0 {
		return fmt.Errorf("model has no labels")
	}
	in := inputLen
	for i, layer := range m.Layers {
		if len(layer.Weights) == 0 || len(layer.Weights) != len(layer.Biases) {
			return fmt.Errorf("layer %d has inconsistent weight/bias shapes", i)
		}
		for _, row := range layer.Weights {
			if len(row) != in {
				return fmt.Errorf("layer %d expects input length %d, got %d", i, len(row), in)
			}
		}
		in = len(layer.Weights)
	}
	if in != len(m.Labels) {
		return fmt.Errorf("output layer has %d units for %d labels", in, len(m.Labels))
	}
	return nil
}

// forward runs one forward pass over the flattened input tensor and returns
// the raw output scores.
func (m *Model) forward(x []float32) []float32 {
	for i, layer := range m.Layers {
		out := make([]float32, len(layer.Weights))
		for j, row := range layer.Weights {
			var sum float32
			for k, w := range row {
				sum += w * x[k]
			}
			out[j] = sum + layer.Biases[j]
		}
		// ReLU on hidden layers only
		if i < len(m.Layers)-1 {
			for j, v := range out {
				out[j] = float32(math.Max(0, float64(v)))
			}
		}
		x = out
	}
	return x
}

// argmax returns the index of the highest score, lowest index on ties.
func argmax(scores []float32) int {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best
}

// GenerateModel builds a small development model with pseudo-random frozen
// weights. The same seed always yields the same artifact, so predictions
// stay deterministic across runs.
func GenerateModel(seed int64) *Model {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec

	labels := []string{LabelHealthy.String(), LabelPowdery.String(), LabelRust.String()}
	out := len(labels)

	layer := Layer{
		Weights: make([][]float32, out),
		Biases:  make([]float32, out),
	}
	for i := range layer.Weights {
		row := make([]float32, inputLen)
		for j := range row {
			row[j] = (rng.Float32() - 0.5) * 0.01
		}
		layer.Weights[i] = row
		layer.Biases[i] = (rng.Float32() - 0.5) * 0.1
	}

	return &Model{
		ID:     uuid.NewString(),
		Labels: labels,
		Layers: []Layer{layer},
	}
}
