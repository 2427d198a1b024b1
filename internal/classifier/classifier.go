// Package classifier wraps the frozen leaf disease model. The artifact is
// loaded once at startup; prediction is a pure function of the image bytes
// and the frozen weights.
package classifier

import (
	"crypto/sha256"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	gocache "github.com/patrickmn/go-cache"
)

// Label is one of the classifier's output classes.
type Label string

const (
	LabelHealthy Label = "Healthy"
	LabelPowdery Label = "Powdery"
	LabelRust    Label = "Rust"
)

func (l Label) String() string { return string(l) }

// Predictor produces a label for the image at the given path.
type Predictor interface {
	Predict(path string) (Label, error)
}

var _ Predictor = (*Service)(nil)

// Service runs inference against the loaded model. Since the label is fully
// determined by the image bytes, results are cached by content hash.
type Service struct {
	model *Model
	cache *gocache.Cache
}

// New loads the model artifact from path. A missing or corrupt artifact is
// an error; callers treat it as fatal and refuse to serve.
func New(path string) (*Service, error) {
	model, err := LoadModel(path)
	if err != nil {
		return nil, err
	}
	return NewWithModel(model), nil
}

// NewWithModel wraps an already loaded model, mainly for tests.
func NewWithModel(model *Model) *Service {
	return &Service{
		model: model,
		cache: gocache.New(30*time.Minute, 10*time.Minute),
	}
}

// ModelID returns the identifier of the loaded artifact.
func (s *Service) ModelID() string {
	return s.model.ID
}

// Predict decodes the image at path, resizes it to the fixed 225x225 input
// resolution, scales channels to [0,1], runs one forward pass and returns
// the label with the highest score (lowest index wins ties).
func (s *Service) Predict(path string) (Label, error) {
	raw, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	key := fmt.Sprintf("%x", sha256.Sum256(raw))
	if cached, found := s.cache.Get(key); found {
		log.Debug("prediction cache hit", "key", key)
		return cached.(Label), nil
	}

	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Resize(img, InputSize, InputSize, imaging.Lanczos)

	// Flatten to a single-image batch: HWC order, channels scaled to [0,1].
	x := make([]float32, inputLen)
	i := 0
	for y := 0; y < InputSize; y++ {
		for xx := 0; xx < InputSize; xx++ {
			c := resized.NRGBAAt(xx, y)
			x[i] = float32(c.R) / 255.0
			x[i+1] = float32(c.G) / 255.0
			x[i+2] = float32(c.B) / 255.0
			i += 3
		}
	}

	scores := s.model.forward(x)
	label := Label(s.model.Labels[argmax(scores)])

	s.cache.Set(key, label, gocache.DefaultExpiration)
	return label, nil
}
