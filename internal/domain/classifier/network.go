package classifier

import (
	"fmt"
	"math"

	"github.com/okian/pathwise/internal/domain/model"
)

// Layer widths of the fixed topology.
const (
	Hidden1 = 32
	Hidden2 = 16
)

// Dense is a fully connected layer. Weight is row-major [Out, In].
type Dense struct {
	In     int
	Out    int
	Weight []float64
	Bias   []float64
}

// NewDense returns a zero-initialized layer.
func NewDense(in, out int) Dense {
	return Dense{
		In:     in,
		Out:    out,
		Weight: make([]float64, in*out),
		Bias:   make([]float64, out),
	}
}

func (d Dense) validate(name string) error {
	if len(d.Weight) != d.In*d.Out {
		return fmt.Errorf("%w: %s.weight has %d values, want %d", ErrInvalidCheckpoint, name, len(d.Weight), d.In*d.Out)
	}
	if len(d.Bias) != d.Out {
		return fmt.Errorf("%w: %s.bias has %d values, want %d", ErrInvalidCheckpoint, name, len(d.Bias), d.Out)
	}
	for _, v := range d.Weight {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s.weight holds a non-finite value", ErrInvalidCheckpoint, name)
		}
	}
	for _, v := range d.Bias {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s.bias holds a non-finite value", ErrInvalidCheckpoint, name)
		}
	}
	return nil
}

// Apply computes W·x + b into out and returns it. When relu is set negative
// activations are zeroed.
func (d Dense) Apply(x, out []float64, relu bool) []float64 {
	for i := 0; i < d.Out; i++ {
		row := d.Weight[i*d.In : (i+1)*d.In]
		sum := d.Bias[i]
		for j, w := range row {
			sum += w * x[j]
		}
		if relu && sum < 0 {
			sum = 0
		}
		out[i] = sum
	}
	return out
}

// Network is the 5→32→16→3 ReLU perceptron. It must not be mutated once
// handed to a Classifier.
type Network struct {
	FC1 Dense
	FC2 Dense
	FC3 Dense
}

// NewNetwork returns a zero-initialized network with the fixed topology.
func NewNetwork() *Network {
	return &Network{
		FC1: NewDense(model.NumFeatures, Hidden1),
		FC2: NewDense(Hidden1, Hidden2),
		FC3: NewDense(Hidden2, model.NumTiers),
	}
}

// Validate checks every layer against the fixed topology.
func (n *Network) Validate() error {
	want := [3][2]int{{model.NumFeatures, Hidden1}, {Hidden1, Hidden2}, {Hidden2, model.NumTiers}}
	for i, l := range n.layers() {
		name := layerNames[i]
		if l.In != want[i][0] || l.Out != want[i][1] {
			return fmt.Errorf("%w: %s is %dx%d, want %dx%d", ErrInvalidCheckpoint, name, l.Out, l.In, want[i][1], want[i][0])
		}
		if err := l.validate(name); err != nil {
			return err
		}
	}
	return nil
}

// Logits runs a forward pass over a normalized feature vector.
func (n *Network) Logits(x [model.NumFeatures]float64) [model.NumTiers]float64 {
	var h1 [Hidden1]float64
	var h2 [Hidden2]float64
	var logits [model.NumTiers]float64
	n.FC1.Apply(x[:], h1[:], true)
	n.FC2.Apply(h1[:], h2[:], true)
	n.FC3.Apply(h2[:], logits[:], false)
	return logits
}

func (n *Network) layers() [3]*Dense {
	return [3]*Dense{&n.FC1, &n.FC2, &n.FC3}
}

var layerNames = [3]string{"fc1", "fc2", "fc3"}

// Softmax returns numerically stable class probabilities.
func Softmax(logits [model.NumTiers]float64) [model.NumTiers]float64 {
	peak := logits[0]
	for _, v := range logits[1:] {
		peak = math.Max(peak, v)
	}
	var probs [model.NumTiers]float64
	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp(v - peak)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// Argmax returns the index of the largest value; ties go to the lowest index.
func Argmax(values [model.NumTiers]float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
