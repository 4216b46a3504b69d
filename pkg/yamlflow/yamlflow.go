// Package yamlflow reads and writes flow documents as YAML files, the
// interchange format used for workspace export and seeding fixtures.
package yamlflow

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/formlane/formlane/pkg/idwrap"
	"github.com/formlane/formlane/pkg/model/mflow"
)

// File is one flow document on disk.
type File struct {
	ID     string         `yaml:"id,omitempty"`
	Name   string         `yaml:"name"`
	Status string         `yaml:"status,omitempty"`
	Flow   mflow.FlowData `yaml:"flow"`
}

// Read parses one flow .yaml file.
func Read(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse flow yaml: %w", err)
	}
	return &f, nil
}

// Write serializes one flow to YAML.
func Write(f File) ([]byte, error) {
	return yaml.Marshal(f)
}

// Export builds the on-disk form of a flow.
func Export(flow mflow.Flow, data mflow.FlowData) File {
	return File{
		ID:     flow.ID.String(),
		Name:   flow.Name,
		Status: string(flow.Status),
		Flow:   data,
	}
}

// FlowMeta reassembles the flow metadata. Files without an id get a fresh
// one, imports are new documents.
func (f *File) FlowMeta() (mflow.Flow, error) {
	flow := mflow.Flow{
		Name:          f.Name,
		Status:        mflow.FlowStatus(f.Status),
		SchemaVersion: f.Flow.SchemaVersion,
	}
	if flow.Status == "" {
		flow.Status = mflow.FlowStatusDraft
	}
	if f.ID == "" {
		flow.ID = idwrap.NewNow()
		return flow, nil
	}
	id, err := idwrap.NewText(f.ID)
	if err != nil {
		return mflow.Flow{}, fmt.Errorf("parse flow id: %w", err)
	}
	flow.ID = id
	return flow, nil
}
