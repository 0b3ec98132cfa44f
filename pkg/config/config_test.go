package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/tensorcubes/pkg/errors"
	"github.com/matzehuels/tensorcubes/pkg/pipeline"
)

const tomlView = `
shape = "B: 2, H: 3, W: 4"
axes = [2, 1, -1]
mode = "slicing"
max_cells = 6
max_boxes = 1000

[slices]
"0" = 1
`

const yamlView = `
shape: "B: 2, H: 3, W: 4"
axes: [2, 1, -1]
mode: slicing
max_cells: 6
max_boxes: 1000
slices:
  "0": 1
`

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"toml", tomlView, FormatTOML},
		{"yaml", yamlView, FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if v.Shape != "B: 2, H: 3, W: 4" {
				t.Errorf("Shape = %q", v.Shape)
			}
			if len(v.Axes) != 3 || v.Axes[0] != 2 || v.Axes[1] != 1 || v.Axes[2] != -1 {
				t.Errorf("Axes = %v", v.Axes)
			}
			if v.Mode != "slicing" || v.MaxCells != 6 || v.MaxBoxes != 1000 {
				t.Errorf("View = %+v", v)
			}
			slices, err := v.SliceIndices()
			if err != nil {
				t.Fatalf("SliceIndices error: %v", err)
			}
			if slices[0] != 1 {
				t.Errorf("slices = %v, want {0: 1}", slices)
			}
		})
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	if _, err := Decode([]byte("shap = \"2x3\"\n"), FormatTOML); err == nil {
		t.Error("toml: unknown key should fail")
	}
	if _, err := Decode([]byte("shap: 2x3\n"), FormatYAML); err == nil {
		t.Error("yaml: unknown key should fail")
	}
}

func TestDecodeEmpty(t *testing.T) {
	for _, f := range []Format{FormatTOML, FormatYAML} {
		v, err := Decode(nil, f)
		if err != nil {
			t.Errorf("%s: empty document error: %v", f, err)
			continue
		}
		if v.Shape != "" || v.Axes != nil {
			t.Errorf("%s: empty document decoded to %+v", f, v)
		}
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"view.toml", FormatTOML, false},
		{"view.YAML", FormatYAML, false},
		{"dir/view.yml", FormatYAML, false},
		{"view.json", "", true},
		{"view", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFor(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatFor(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestSliceIndicesInvalidKey(t *testing.T) {
	v := &View{Slices: map[string]int{"batch": 1}}
	if _, err := v.SliceIndices(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadAndApply(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "weights.json"), "[[1,2],[3,4]]")
	viewPath := filepath.Join(dir, "view.toml")
	writeFile(t, viewPath, "tensor_file = \"weights.json\"\nmode = \"tiling\"\n")

	v, err := Load(viewPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got, want := v.TensorPath(), filepath.Join(dir, "weights.json"); got != want {
		t.Errorf("TensorPath = %q, want %q", got, want)
	}

	opts := pipeline.Options{Shape: "9", MaxCells: 3}
	if err := v.Apply(&opts); err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if opts.Tensor != "[[1,2],[3,4]]" {
		t.Errorf("Tensor = %q", opts.Tensor)
	}
	if opts.Mode != "tiling" {
		t.Errorf("Mode = %q", opts.Mode)
	}
	if opts.Shape != "9" || opts.MaxCells != 3 {
		t.Errorf("unset view fields should leave options alone: %+v", opts)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		body string
		code errors.Code
	}{
		{"missing", filepath.Join(dir, "missing.toml"), "", errors.ErrCodeFileNotFound},
		{"bad extension", filepath.Join(dir, "view.ini"), "x", errors.ErrCodeUnsupported},
		{"bad toml", filepath.Join(dir, "bad.toml"), "shape = ", errors.ErrCodeInvalidConfig},
		{"empty path", "", "", errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.body != "" {
				writeFile(t, tt.path, tt.body)
			}
			_, err := Load(tt.path)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestApplyMissingTensorFile(t *testing.T) {
	v := &View{TensorFile: "nope.json", dir: t.TempDir()}
	var opts pipeline.Options
	if err := v.Apply(&opts); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	opts := pipeline.Options{
		Shape:    "2x3x4",
		Axes:     []int{2, -1, 0},
		Mode:     "slicing",
		MaxCells: 5,
		Slices:   map[int]int{1: 2},
	}
	for _, f := range []Format{FormatTOML, FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Encode(FromOptions(opts), f)
			if err != nil {
				t.Fatalf("Encode error: %v", err)
			}
			v, err := Decode(data, f)
			if err != nil {
				t.Fatalf("Decode error: %v\n%s", err, data)
			}
			var got pipeline.Options
			if err := v.Apply(&got); err != nil {
				t.Fatal(err)
			}
			if got.Shape != opts.Shape || got.Mode != opts.Mode || got.MaxCells != opts.MaxCells {
				t.Errorf("round trip = %+v", got)
			}
			if len(got.Axes) != 3 || got.Axes[0] != 2 || got.Axes[1] != -1 || got.Axes[2] != 0 {
				t.Errorf("Axes = %v", got.Axes)
			}
			if got.Slices[1] != 2 {
				t.Errorf("Slices = %v", got.Slices)
			}
		})
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}
