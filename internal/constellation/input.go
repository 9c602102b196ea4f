// Package constellation holds the generation result that the viewer renders:
// the constellation name and story, the photograph path, and the stars and
// lines computed by the generation service.
package constellation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"constellation-viewer/pkg/geometry"
)

// ErrInvalidInput is returned when a generation result cannot be decoded.
var ErrInvalidInput = errors.New("invalid generation result")

// RenderInput is one completed generation result.
//
// A RenderInput is replaced wholesale when a new result arrives; it is never
// edited in place. Stars and Lines are in the photograph's native pixel space
// and may be empty. An empty ImagePath means no visual render is attempted.
type RenderInput struct {
	Name            string
	Story           string
	ImagePath       string
	Stars           []geometry.Point2D
	Lines           []geometry.LineSegment
	SelectedCluster *int
}

// HasImage reports whether the result references a photograph.
func (in RenderInput) HasImage() bool {
	return in.ImagePath != ""
}

// Highlighted returns the lines of the selected cluster.
func (in RenderInput) Highlighted() []geometry.LineSegment {
	return HighlightedLines(in.Lines, in.SelectedCluster)
}

// Clone returns a deep copy so the caller's slices can't alias the result.
func (in RenderInput) Clone() RenderInput {
	out := in
	if in.Stars != nil {
		out.Stars = append([]geometry.Point2D(nil), in.Stars...)
	}
	if in.Lines != nil {
		out.Lines = append([]geometry.LineSegment(nil), in.Lines...)
	}
	if in.SelectedCluster != nil {
		k := *in.SelectedCluster
		out.SelectedCluster = &k
	}
	return out
}

// wireResult is the JSON body returned by the generation service.
type wireResult struct {
	ConstellationName    string                 `json:"constellation_name"`
	Story                string                 `json:"story"`
	ImagePath            *string                `json:"image_path,omitempty"`
	Stars                []geometry.Point2D     `json:"stars,omitempty"`
	ConstellationLines   []geometry.LineSegment `json:"constellation_lines,omitempty"`
	SelectedClusterIndex *int                   `json:"selected_cluster_index,omitempty"`
}

// Decode reads a generation result in the service's JSON format.
func Decode(r io.Reader) (RenderInput, error) {
	var w wireResult
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return RenderInput{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	in := RenderInput{
		Name:            w.ConstellationName,
		Story:           w.Story,
		Stars:           w.Stars,
		Lines:           w.ConstellationLines,
		SelectedCluster: w.SelectedClusterIndex,
	}
	if w.ImagePath != nil {
		in.ImagePath = *w.ImagePath
	}
	return in, nil
}

// LoadFile decodes a generation result saved to disk.
func LoadFile(path string) (RenderInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return RenderInput{}, fmt.Errorf("failed to open result: %w", err)
	}
	defer f.Close()

	in, err := Decode(f)
	if err != nil {
		return RenderInput{}, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// MarshalJSON encodes the result in the service's wire format.
func (in RenderInput) MarshalJSON() ([]byte, error) {
	w := wireResult{
		ConstellationName:    in.Name,
		Story:                in.Story,
		Stars:                in.Stars,
		ConstellationLines:   in.Lines,
		SelectedClusterIndex: in.SelectedCluster,
	}
	if in.ImagePath != "" {
		p := in.ImagePath
		w.ImagePath = &p
	}
	return json.Marshal(w)
}
