package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkadiri/creditworthy/internal/domain/model"
)

// ArtifactVersion is written into every saved model artifact.
const ArtifactVersion = "1.0.0"

// artifact is the on-disk JSON layout for one kind's trained model.
type artifact struct {
	Kind          model.DocumentKind `json:"kind"`
	Columns       []string           `json:"columns"`
	LabelEncoding []string           `json:"label_encoding"`
	Scaler        *StandardScaler    `json:"scaler"`
	Classifier    *RandomForest      `json:"classifier"`
	Regressor     *GradientBoosting  `json:"regressor"`
	Metadata      Metadata           `json:"metadata"`
}

func artifactPath(dir string, kind model.DocumentKind) string {
	name := strings.ToLower(string(kind)) + ".json"
	return filepath.Join(dir, name)
}

// Save writes the trained model as a JSON artifact under dir,
// creating the directory when necessary.
func (m *KindModel) Save(dir string) error {
	if m.Scaler == nil {
		return ErrNotFitted
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save %s: %w", m.Kind, err)
	}

	labels := make([]string, 0, len(model.Statuses()))
	for _, st := range model.Statuses() {
		labels = append(labels, string(st))
	}

	a := artifact{
		Kind:          m.Kind,
		Columns:       m.Columns,
		LabelEncoding: labels,
		Scaler:        m.Scaler,
		Classifier:    m.Classifier,
		Regressor:     m.Regressor,
		Metadata:      m.Metadata,
	}

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("save %s: %w", m.Kind, err)
	}

	if err := os.WriteFile(artifactPath(dir, m.Kind), data, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", m.Kind, err)
	}

	return nil
}

// Load reads the artifact for one kind. A missing or unreadable
// artifact is reported as ErrModelUnavailable so callers can fall
// back to rule scoring.
func Load(dir string, kind model.DocumentKind) (*KindModel, error) {
	data, err := os.ReadFile(artifactPath(dir, kind))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, ErrModelUnavailable)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, ErrModelUnavailable)
	}
	if a.Kind != kind || a.Scaler == nil || a.Classifier == nil || a.Regressor == nil {
		return nil, fmt.Errorf("load %s: malformed artifact: %w", kind, ErrModelUnavailable)
	}

	return &KindModel{
		Kind:       a.Kind,
		Columns:    a.Columns,
		Scaler:     a.Scaler,
		Classifier: a.Classifier,
		Regressor:  a.Regressor,
		Metadata:   a.Metadata,
	}, nil
}

// LoadRegistry loads every kind that has an artifact under dir. Kinds
// without artifacts are simply absent from the returned registry; the
// error reports the kinds that failed, if any, alongside a usable
// registry for the rest.
func LoadRegistry(dir string) (*Registry, []model.DocumentKind) {
	reg := NewRegistry()

	var missing []model.DocumentKind
	for _, kind := range model.Kinds() {
		m, err := Load(dir, kind)
		if err != nil {
			missing = append(missing, kind)
			continue
		}
		reg.Put(m)
	}

	return reg, missing
}
