package importer

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"github.com/stefanorainone/sales-management/internal/domain"
	"gopkg.in/yaml.v3"
)

// SeedFile is the top-level structure of a pipeline seed. Records use the
// document field names, so exports of the document store load as they are.
// Refs let records point at each other before ids exist.
type SeedFile struct {
	Users         []domain.User         `json:"users"`
	Clients       []ClientImport        `json:"clients"`
	Deals         []DealImport          `json:"deals"`
	Relationships []domain.Relationship `json:"relationships,omitempty"`
	Activities    []ActivityImport      `json:"activities,omitempty"`
	Instructions  []InstructionImport   `json:"instructions,omitempty"`
}

type ClientImport struct {
	Ref string `json:"ref,omitempty"`
	domain.Client
}

type DealImport struct {
	Ref       string `json:"ref,omitempty"`
	ClientRef string `json:"clientRef,omitempty"`
	domain.Deal
}

type ActivityImport struct {
	ClientRef string `json:"clientRef,omitempty"`
	DealRef   string `json:"dealRef,omitempty"`
	domain.Activity
}

// InstructionImport defaults Active to true when the field is absent.
type InstructionImport struct {
	Active *bool `json:"active,omitempty"`
	domain.AICustomInstructions
}

// LoadSeedFile reads a YAML or JSON seed from fs.
func LoadSeedFile(fs afero.Fs, path string) (*SeedFile, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	return ParseSeed(data)
}

// ParseSeed decodes YAML (JSON is valid YAML) into a SeedFile. The YAML
// tree is re-encoded as JSON so timestamps go through domain.Timestamp in
// either of their stored forms.
func ParseSeed(data []byte) (*SeedFile, error) {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("re-encoding seed file: %w", err)
	}
	var seed SeedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("decoding seed file: %w", err)
	}
	return &seed, nil
}
