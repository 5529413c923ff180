package chain

import (
	"encoding/json"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/habitmosaic/pkg/errors"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// exportVersion is bumped when the document layout changes.
const exportVersion = 1

type document struct {
	Version int      `json:"version" yaml:"version"`
	Chains  []*Chain `json:"chains" yaml:"chains"`
}

// FormatFromPath guesses the export format from a file extension,
// defaulting to JSON.
func FormatFromPath(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

// Export writes chains to w as a versioned document.
func Export(w io.Writer, chains []*Chain, format string) error {
	doc := document{Version: exportVersion, Chains: chains}
	if doc.Chains == nil {
		doc.Chains = []*Chain{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported export format %q (want json or yaml)", format)
	}
}

// Import reads a document written by Export.
func Import(r io.Reader, format string) ([]*Chain, error) {
	var doc document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported import format %q (want json or yaml)", format)
	}

	if doc.Version > exportVersion {
		return nil, errors.New(errors.ErrCodeUnsupported, "document version %d is newer than supported version %d",
			doc.Version, exportVersion)
	}
	for _, c := range doc.Chains {
		if c.Days == nil {
			c.Days = map[string]bool{}
		}
	}
	return doc.Chains, nil
}
