// Package config loads view files: saved layout settings in TOML or YAML.
//
//	shape = "B: 2, H: 3, W: 4"
//	tensor_file = "weights.json"   # relative to the view file
//	axes = [2, 1, -1]
//	mode = "slicing"
//	max_cells = 8
//
//	[slices]
//	"0" = 1
//
// A loaded [View] is applied onto [pipeline.Options]; callers apply explicit
// command-line flags afterwards so they win over the file.
package config

import (
	"bytes"
	"os"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tensorcubes/pkg/errors"
	"github.com/matzehuels/tensorcubes/pkg/pipeline"
)

// Format is a view file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// View is the content of a view file. Zero fields leave options untouched.
type View struct {
	Shape      string         `toml:"shape,omitempty" yaml:"shape,omitempty"`
	TensorFile string         `toml:"tensor_file,omitempty" yaml:"tensor_file,omitempty"`
	Axes       []int          `toml:"axes,omitempty" yaml:"axes,omitempty,flow"`
	Mode       string         `toml:"mode,omitempty" yaml:"mode,omitempty"`
	MaxCells   int            `toml:"max_cells,omitzero" yaml:"max_cells,omitempty"`
	MaxBoxes   int            `toml:"max_boxes,omitzero" yaml:"max_boxes,omitempty"`
	Slices     map[string]int `toml:"slices,omitempty" yaml:"slices,omitempty"`

	// dir resolves TensorFile; empty means the working directory.
	dir string
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported view file %q (want .toml, .yaml or .yml)", filepath.Base(path))
	}
}

// Load reads and decodes a view file.
func Load(path string) (*View, error) {
	if err := errors.ValidateFilePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "view file %s", path)
	}
	if err != nil {
		return nil, err
	}
	v, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", filepath.Base(path))
	}
	v.dir = filepath.Dir(path)
	return v, nil
}

// Decode parses view data. Unknown keys are rejected so typos surface.
func Decode(data []byte, format Format) (*View, error) {
	var v View
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &v)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&v); err != nil && err != io.EOF {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
	return &v, nil
}

// SliceIndices converts the string-keyed slices table into dimension indices.
func (v *View) SliceIndices() (map[int]int, error) {
	if len(v.Slices) == 0 {
		return nil, nil
	}
	out := make(map[int]int, len(v.Slices))
	for k, idx := range v.Slices {
		dim, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || dim < 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "slices: %q is not a dimension index", k)
		}
		out[dim] = idx
	}
	return out, nil
}

// TensorPath returns TensorFile resolved against the view file's directory.
func (v *View) TensorPath() string {
	if v.TensorFile == "" || filepath.IsAbs(v.TensorFile) {
		return v.TensorFile
	}
	return filepath.Join(v.dir, v.TensorFile)
}

// Apply copies every set field onto opts, reading the tensor file if named.
func (v *View) Apply(opts *pipeline.Options) error {
	if v.Shape != "" {
		opts.Shape = v.Shape
	}
	if v.TensorFile != "" {
		path := v.TensorPath()
		if err := errors.ValidateFilePath(path); err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "tensor file %s", v.TensorFile)
		}
		if err != nil {
			return err
		}
		opts.Tensor = string(data)
	}
	if len(v.Axes) > 0 {
		opts.Axes = append([]int(nil), v.Axes...)
	}
	if v.Mode != "" {
		opts.Mode = v.Mode
	}
	if v.MaxCells != 0 {
		opts.MaxCells = v.MaxCells
	}
	if v.MaxBoxes != 0 {
		opts.MaxBoxes = v.MaxBoxes
	}
	slices, err := v.SliceIndices()
	if err != nil {
		return err
	}
	if slices != nil {
		opts.Slices = slices
	}
	return nil
}

// Encode writes v in format.
func Encode(v *View, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(v); err != nil {
			return nil, err
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
	return buf.Bytes(), nil
}

// FromOptions captures opts as a view. The tensor literal is not embedded;
// set TensorFile to reference it.
func FromOptions(opts pipeline.Options) *View {
	v := &View{
		Shape:    opts.Shape,
		Axes:     append([]int(nil), opts.Axes...),
		Mode:     opts.Mode,
		MaxCells: opts.MaxCells,
		MaxBoxes: opts.MaxBoxes,
	}
	if len(opts.Slices) > 0 {
		v.Slices = make(map[string]int, len(opts.Slices))
		for d, idx := range opts.Slices {
			v.Slices[strconv.Itoa(d)] = idx
		}
	}
	return v
}
