package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/crystal/pkg/errors"
	"github.com/matzehuels/crystal/pkg/scene"
)

// Input is a pipeline input file: either a scene to solve or a frame that
// was already solved and only needs rendering.
type Input struct {
	Scene *scene.Scene
	Frame *scene.Frame
}

// Load reads a scene (.toml or .json) or a frame (.json with a "boxes"
// array).
func Load(path string) (Input, error) {
	format, err := scene.FormatFromPath(path)
	if err != nil {
		return Input{}, err
	}
	if format == scene.FormatJSON {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return Input{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s not found", path)
			}
			return Input{}, err
		}
		if isFrame(data) {
			f, err := scene.UnmarshalFrame(data)
			if err != nil {
				return Input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: invalid frame", path)
			}
			return Input{Frame: f}, nil
		}
		s, err := scene.Parse(data, format)
		if err != nil {
			return Input{}, fmt.Errorf("%s: %w", path, err)
		}
		return Input{Scene: s}, nil
	}

	s, err := scene.ReadFile(path)
	if err != nil {
		return Input{}, err
	}
	return Input{Scene: s}, nil
}

// isFrame reports whether a JSON document is a frame rather than a scene.
func isFrame(data []byte) bool {
	var peek struct {
		Boxes json.RawMessage `json:"boxes"`
	}
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&peek); err != nil {
		return false
	}
	return len(peek.Boxes) > 0
}
