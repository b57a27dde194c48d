package classifier

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goccy/go-json"
	"github.com/okian/pathwise/internal/errkind"
)

// CheckpointFormat identifies the checkpoint layout written by Save.
const CheckpointFormat = "pathwise-mlp/v1"

// Tensor is one named parameter. Data is row-major over Shape.
type Tensor struct {
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// Checkpoint is the persisted network, keyed by layer parameter name
// ("fc1.weight", "fc1.bias", ...).
type Checkpoint struct {
	Format         string            `json:"format"`
	ModelStateDict map[string]Tensor `json:"model_state_dict"`
}

// Checkpoint exports the network parameters.
func (n *Network) Checkpoint() Checkpoint {
	cp := Checkpoint{Format: CheckpointFormat, ModelStateDict: make(map[string]Tensor, 6)}
	for i, l := range n.layers() {
		cp.ModelStateDict[layerNames[i]+".weight"] = Tensor{
			Shape: []int{l.Out, l.In},
			Data:  append([]float64(nil), l.Weight...),
		}
		cp.ModelStateDict[layerNames[i]+".bias"] = Tensor{
			Shape: []int{l.Out},
			Data:  append([]float64(nil), l.Bias...),
		}
	}
	return cp
}

// Network rebuilds a validated network from the checkpoint.
func (cp Checkpoint) Network() (*Network, error) {
	if cp.Format != "" && cp.Format != CheckpointFormat {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidCheckpoint, cp.Format)
	}
	n := &Network{}
	for i, l := range n.layers() {
		name := layerNames[i]
		w, ok := cp.ModelStateDict[name+".weight"]
		if !ok {
			return nil, fmt.Errorf("%w: missing tensor %s.weight", ErrInvalidCheckpoint, name)
		}
		b, ok := cp.ModelStateDict[name+".bias"]
		if !ok {
			return nil, fmt.Errorf("%w: missing tensor %s.bias", ErrInvalidCheckpoint, name)
		}
		if len(w.Shape) != 2 {
			return nil, fmt.Errorf("%w: %s.weight shape %v is not 2D", ErrInvalidCheckpoint, name, w.Shape)
		}
		if len(b.Shape) != 1 || b.Shape[0] != w.Shape[0] {
			return nil, fmt.Errorf("%w: %s.bias shape %v does not match weight %v", ErrInvalidCheckpoint, name, b.Shape, w.Shape)
		}
		*l = Dense{Out: w.Shape[0], In: w.Shape[1], Weight: w.Data, Bias: b.Data}
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// LoadNetwork reads and validates a checkpoint file. A missing file is
// reported as errkind.ErrModelUnavailable.
func LoadNetwork(path string) (*Network, error) {
	const op = "classifier.load"
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errkind.WrapKind(op, errkind.ErrModelUnavailable, err)
		}
		return nil, errkind.Wrap(op, err)
	}
	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, errkind.Wrap(op, fmt.Errorf("%w: %w", ErrInvalidCheckpoint, err))
	}
	n, err := cp.Network()
	if err != nil {
		return nil, errkind.Wrap(op, err)
	}
	return n, nil
}

// SaveNetwork writes the network as a checkpoint file.
func SaveNetwork(path string, n *Network) error {
	data, err := json.Marshal(n.Checkpoint())
	if err != nil {
		return fmt.Errorf("classifier: encode checkpoint: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("classifier: write checkpoint: %w", err)
	}
	return nil
}
