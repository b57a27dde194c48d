package training

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/pathwise/internal/domain/classifier"
	"github.com/okian/pathwise/internal/domain/scaler"
)

// Artifact file names written by WriteArtifacts.
const (
	ModelFile  = "roadmap_model.json"
	ScalerFile = "scaler.json"
)

// Artifacts are the paths of a written model and scaler pair.
type Artifacts struct {
	ModelPath  string
	ScalerPath string
}

// WriteArtifacts saves the network and scaler into dir, creating it if needed.
func WriteArtifacts(dir string, net *classifier.Network, sc *scaler.Scaler) (Artifacts, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return Artifacts{}, fmt.Errorf("create artifact dir: %w", err)
	}
	a := Artifacts{
		ModelPath:  filepath.Join(dir, ModelFile),
		ScalerPath: filepath.Join(dir, ScalerFile),
	}
	if err := classifier.SaveNetwork(a.ModelPath, net); err != nil {
		return Artifacts{}, err
	}
	if err := sc.Save(a.ScalerPath); err != nil {
		return Artifacts{}, err
	}
	return a, nil
}
