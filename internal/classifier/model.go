// Package classifier implements the trained moderation model: a logistic
// regression over a fixed 4-feature representation of a listing, plus the
// legacy rule-based approval check it replaced.
package classifier

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"unicode/utf8"

	"gonum.org/v1/gonum/mat"

	"github.com/itemguard/moderation-api/internal/models"
)

// Artifact is the narrow capability the serving path depends on. Decide maps
// a feature vector to a binary label and the probability of the positive
// (violation) class.
type Artifact interface {
	Decide(features []float64) (label int, probability float64, err error)
}

// LogisticRegression is a trained binary classifier. Immutable after
// training or load; safe for unsynchronized concurrent Decide calls.
type LogisticRegression struct {
	Weights []float64
	Bias    float64
}

var _ Artifact = (*LogisticRegression)(nil)

// Decide classifies a feature vector. Label is 1 when the violation
// probability reaches 0.5.
func (m *LogisticRegression) Decide(features []float64) (int, float64, error) {
	if len(features) != len(m.Weights) {
		return 0, 0, fmt.Errorf("feature vector has %d values, model expects %d", len(features), len(m.Weights))
	}
	z := mat.Dot(mat.NewVecDense(len(features), features), mat.NewVecDense(len(m.Weights), m.Weights)) + m.Bias
	p := sigmoid(z)
	if math.IsNaN(p) {
		return 0, 0, fmt.Errorf("model produced NaN probability")
	}
	label := 0
	if p >= 0.5 {
		label = 1
	}
	return label, p, nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// FeatureVector builds the model input for a listing. Order is fixed and
// must match training: [verified, images_qty/10, description_length/1000,
// category/100]. Description length counts characters, not bytes.
func FeatureVector(l models.Listing) []float64 {
	verified := 0.0
	if l.IsVerifiedSeller {
		verified = 1.0
	}
	return []float64{
		verified,
		float64(l.ImagesQty) / 10.0,
		float64(utf8.RuneCountInString(l.Description)) / 1000.0,
		float64(l.Category) / 100.0,
	}
}

// Encode serializes a model for storage.
func Encode(m *LogisticRegression) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode model: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode deserializes a model previously produced by Encode.
func Decode(data []byte) (*LogisticRegression, error) {
	var m LogisticRegression
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}
	return &m, nil
}

// SaveFile writes the model to a local file.
func SaveFile(m *LogisticRegression, path string) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model file %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a model from a local file. A missing file surfaces as an
// error wrapping os.ErrNotExist.
func LoadFile(path string) (*LogisticRegression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file %s: %w", path, err)
	}
	return Decode(data)
}
