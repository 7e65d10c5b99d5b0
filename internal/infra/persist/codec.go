package persist

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/focus-pilot/internal/domain"
)

// Codec encodes whole collections for the key-value store.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec encodes with encoding/json.
type JSONCodec struct{}

func (JSONCodec) Name() string { return domain.CodecJSON }

func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// YAMLCodec encodes with gopkg.in/yaml.v3. Git-backed stores default to it
// because it diffs line by line.
type YAMLCodec struct{}

func (YAMLCodec) Name() string { return domain.CodecYAML }

func (YAMLCodec) Marshal(v any) ([]byte, error) { return yaml.Marshal(v) }

func (YAMLCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

// CodecByName returns the codec for a config value.
func CodecByName(name string) (Codec, error) {
	switch name {
	case domain.CodecJSON, "":
		return JSONCodec{}, nil
	case domain.CodecYAML:
		return YAMLCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}
