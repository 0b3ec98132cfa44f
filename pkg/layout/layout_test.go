package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/tensorcubes/pkg/tensor"
)

const eps = 1e-9

func TestComputeCount(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want int
	}{
		{
			name: "Cube",
			cfg:  Config{Shape: tensor.Shape{4, 4, 4}, Spatial: DefaultSpatialDims(3), MaxCellsPerDim: 8},
			want: 64,
		},
		{
			name: "SlicingCollapsesOuter",
			cfg: Config{
				Shape:          tensor.Shape{2, 3, 4, 5},
				Spatial:        SpatialDims{1, 2, 3},
				Outer:          []int{0},
				Mode:           Slicing,
				SliceIndices:   map[int]int{0: 1},
				MaxCellsPerDim: 8,
			},
			want: 60,
		},
		{
			name: "TilingKeepsOuter",
			cfg: Config{
				Shape:          tensor.Shape{2, 3, 4, 5},
				Spatial:        SpatialDims{1, 2, 3},
				Outer:          []int{0},
				Mode:           Tiling,
				MaxCellsPerDim: 8,
			},
			want: 120,
		},
		{
			name: "Downsampled",
			cfg:  Config{Shape: tensor.Shape{100, 3}, Spatial: DefaultSpatialDims(2), MaxCellsPerDim: 5},
			want: 15,
		},
		{
			name: "Empty",
			cfg:  Config{MaxCellsPerDim: 8},
			want: 0,
		},
		{
			name: "SizeOneDims",
			cfg:  Config{Shape: tensor.Shape{1, 1, 1, 1}, Spatial: DefaultSpatialDims(4), MaxCellsPerDim: 8},
			want: 1,
		},
		{
			name: "Rank8Tiling",
			cfg:  Config{Shape: tensor.Shape{2, 2, 2, 2, 2, 2, 2, 2}, Spatial: DefaultSpatialDims(8), MaxCellsPerDim: 8},
			want: 256,
		},
		{
			name: "FreeDimensionStillEnumerated",
			cfg:  Config{Shape: tensor.Shape{2, 3}, Spatial: SpatialDims{0, Unbound, Unbound}, Outer: []int{}, MaxCellsPerDim: 8},
			want: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boxes := Compute(tt.cfg)
			if len(boxes) != tt.want {
				t.Errorf("len(Compute) = %d, want %d", len(boxes), tt.want)
			}
			if got := Count(tt.cfg); got != tt.want {
				t.Errorf("Count = %d, want %d", got, tt.want)
			}

			product := 1
			for _, set := range SampledSets(tt.cfg) {
				product *= len(set)
			}
			if len(tt.cfg.Shape) == 0 {
				product = 0
			}
			if len(boxes) != product {
				t.Errorf("len(Compute) = %d, product of sampled sets = %d", len(boxes), product)
			}
		})
	}
}

func TestComputeSlicingFixesPage(t *testing.T) {
	cfg := Config{
		Shape:          tensor.Shape{2, 3, 4, 5},
		Spatial:        SpatialDims{1, 2, 3},
		Outer:          []int{0},
		Mode:           Slicing,
		SliceIndices:   map[int]int{0: 1},
		MaxCellsPerDim: 8,
	}
	for _, b := range Compute(cfg) {
		if b.IndexPath[0] != 1 {
			t.Fatalf("box %s has indexPath[0] = %d, want 1", b.ID, b.IndexPath[0])
		}
	}
}

func TestComputeSliceClamping(t *testing.T) {
	tests := []struct {
		name  string
		slice map[int]int
		want  int
	}{
		{name: "Default", slice: nil, want: 0},
		{name: "TooLarge", slice: map[int]int{0: 10}, want: 2},
		{name: "Negative", slice: map[int]int{0: -5}, want: 0},
		{name: "InRange", slice: map[int]int{0: 1}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				Shape:          tensor.Shape{3, 2},
				Spatial:        SpatialDims{1, Unbound, Unbound},
				Mode:           Slicing,
				SliceIndices:   tt.slice,
				MaxCellsPerDim: 8,
			}
			boxes := Compute(cfg)
			if len(boxes) != 2 {
				t.Fatalf("len = %d, want 2", len(boxes))
			}
			for _, b := range boxes {
				if b.IndexPath[0] != tt.want {
					t.Errorf("indexPath[0] = %d, want %d", b.IndexPath[0], tt.want)
				}
			}
		})
	}
}

func TestComputeSliceIgnoredWhenTiling(t *testing.T) {
	cfg := Config{
		Shape:          tensor.Shape{3, 2},
		Spatial:        SpatialDims{1, Unbound, Unbound},
		Mode:           Tiling,
		SliceIndices:   map[int]int{0: 2},
		MaxCellsPerDim: 8,
	}
	if got := len(Compute(cfg)); got != 6 {
		t.Errorf("len = %d, want 6", got)
	}
}

func TestComputeCartesianMembership(t *testing.T) {
	cfg := Config{
		Shape:          tensor.Shape{3, 20, 2, 7},
		Spatial:        SpatialDims{1, 3, Unbound},
		MaxCellsPerDim: 4,
	}
	sets := SampledSets(cfg)
	seen := make(map[string]bool)
	for _, b := range Compute(cfg) {
		if len(b.IndexPath) != len(cfg.Shape) {
			t.Fatalf("box %s has path length %d", b.ID, len(b.IndexPath))
		}
		for d, idx := range b.IndexPath {
			if !contains(sets[d], idx) {
				t.Fatalf("box %s: index %d not in sampled set %v of dim %d", b.ID, idx, sets[d], d)
			}
		}
		if seen[b.ID] {
			t.Fatalf("duplicate id %s", b.ID)
		}
		seen[b.ID] = true
	}
	if want := Count(cfg); len(seen) != want {
		t.Errorf("distinct ids = %d, want %d", len(seen), want)
	}
}

func TestComputeOrder(t *testing.T) {
	cfg := Config{Shape: tensor.Shape{2, 2, 2}, Spatial: DefaultSpatialDims(3), MaxCellsPerDim: 8}
	var ids []string
	for _, b := range Compute(cfg) {
		ids = append(ids, b.ID)
	}
	want := []string{"0,0,0", "0,0,1", "0,1,0", "0,1,1", "1,0,0", "1,0,1", "1,1,0", "1,1,1"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func TestComputeCentered(t *testing.T) {
	configs := []Config{
		{Shape: tensor.Shape{4, 4, 4}, Spatial: DefaultSpatialDims(3), MaxCellsPerDim: 8},
		{Shape: tensor.Shape{2, 3, 4, 5}, Spatial: SpatialDims{1, 2, 3}, Outer: []int{0}, MaxCellsPerDim: 8},
		{Shape: tensor.Shape{2, 3, 4, 5}, Spatial: SpatialDims{1, 2, 3}, Outer: []int{0}, Mode: Slicing, MaxCellsPerDim: 8},
		{Shape: tensor.Shape{7}, Spatial: DefaultSpatialDims(1), MaxCellsPerDim: 8},
		{Shape: tensor.Shape{3, 2, 5, 2, 3, 4}, Spatial: SpatialDims{5, Unbound, 0}, MaxCellsPerDim: 3},
	}
	for _, cfg := range configs {
		boxes := Compute(cfg)
		c := BoundsOf(boxes).Center()
		for a, v := range c {
			if math.Abs(v) > eps {
				t.Errorf("shape %v: center[%d] = %v, want 0", cfg.Shape, a, v)
			}
		}
	}
}

func TestComputePositions(t *testing.T) {
	cfg := Config{Shape: tensor.Shape{2, 3}, Spatial: DefaultSpatialDims(2), MaxCellsPerDim: 8}
	want := map[string]Vec3{
		"0,0": {-1, 0.5, 0},
		"0,2": {1, 0.5, 0},
		"1,0": {-1, -0.5, 0},
		"1,2": {1, -0.5, 0},
	}
	for _, b := range Compute(cfg) {
		w, ok := want[b.ID]
		if !ok {
			continue
		}
		if !vecNear(b.Position, w) {
			t.Errorf("box %s at %v, want %v", b.ID, b.Position, w)
		}
	}
}

func TestComputeDownsampledPositionsAreRanks(t *testing.T) {
	cfg := Config{Shape: tensor.Shape{100}, Spatial: DefaultSpatialDims(1), MaxCellsPerDim: 5}
	boxes := Compute(cfg)
	wantX := map[int]float64{0: -2, 25: -1, 50: 0, 74: 1, 99: 2}
	for _, b := range boxes {
		if x := b.Position.X(); math.Abs(x-wantX[b.IndexPath[0]]) > eps {
			t.Errorf("index %d at x=%v, want %v", b.IndexPath[0], x, wantX[b.IndexPath[0]])
		}
	}
}

func TestTilingStepsCompound(t *testing.T) {
	cfg := Config{
		Shape:          tensor.Shape{2, 2, 2, 2, 3},
		Spatial:        SpatialDims{4, Unbound, Unbound},
		MaxCellsPerDim: 8,
	}
	plan := Plan(cfg)

	wantAxis := []Axis{AxisY, AxisX, AxisZ, AxisY, AxisX}
	wantStep := []int{3, 5, 3, 8, 1}
	wantRole := []Role{RoleTile, RoleTile, RoleTile, RoleTile, RoleSpatial}
	for d, p := range plan {
		if p.Axis != wantAxis[d] || p.Step != wantStep[d] || p.Role != wantRole[d] {
			t.Errorf("dim %d: role=%s axis=%s step=%d, want role=%s axis=%s step=%d",
				d, p.Role, p.Axis, p.Step, wantRole[d], wantAxis[d], wantStep[d])
		}
	}
}

func TestTilingOffsets(t *testing.T) {
	cfg := Config{
		Shape:          tensor.Shape{2, 3, 4},
		Spatial:        SpatialDims{2, 1, Unbound},
		MaxCellsPerDim: 8,
	}
	boxes := Compute(cfg)
	pos := make(map[string]Vec3, len(boxes))
	for _, b := range boxes {
		pos[b.ID] = b.Position
	}
	// Outer dim 0 tiles along Y with step 3+Spacing.
	if dy := pos["0,0,0"][1] - pos["1,0,0"][1]; math.Abs(dy-5) > eps {
		t.Errorf("tile offset along y = %v, want 5", dy)
	}
	if dx := pos["0,0,3"][0] - pos["0,0,0"][0]; math.Abs(dx-3) > eps {
		t.Errorf("spatial spread along x = %v, want 3", dx)
	}
}

func TestTilingNeverOverlaps(t *testing.T) {
	shapes := []tensor.Shape{
		{2, 3, 4, 5},
		{3, 2, 2, 3, 2},
		{2, 2, 2, 2, 2, 2, 2, 2},
		{4, 1, 3, 9, 2, 2},
	}
	for _, shape := range shapes {
		for _, spatial := range []SpatialDims{DefaultSpatialDims(len(shape)), {0, Unbound, Unbound}, {1, 0, Unbound}} {
			cfg := Config{Shape: shape, Spatial: spatial, MaxCellsPerDim: 4}
			seen := make(map[Vec3]string)
			for _, b := range Compute(cfg) {
				if other, dup := seen[b.Position]; dup {
					t.Fatalf("shape %v spatial %v: %s and %s share position %v", shape, spatial, other, b.ID, b.Position)
				}
				seen[b.Position] = b.ID
			}
		}
	}
}

func TestComputeIdempotent(t *testing.T) {
	data, _ := tensor.ParseTensor(`[[1,2,3],[4,5,6]]`)
	cfg := Config{
		Shape:          data.Shape,
		Spatial:        DefaultSpatialDims(2),
		MaxCellsPerDim: 8,
		Data:           data.Data,
	}
	a := Compute(cfg)
	b := Compute(cfg)
	if !reflect.DeepEqual(a, b) {
		t.Error("Compute should return equal results for equal configs")
	}
	if len(a) > 0 && &a[0] == &b[0] {
		t.Error("Compute should return fresh slices")
	}
}

func TestComputeValues(t *testing.T) {
	data, ok := tensor.ParseTensor(`[[1,2],[3,4]]`)
	if !ok {
		t.Fatal("ParseTensor failed")
	}
	cfg := Config{Shape: tensor.Shape{3, 2}, Spatial: DefaultSpatialDims(2), MaxCellsPerDim: 8, Data: data.Data}
	for _, b := range Compute(cfg) {
		switch b.ID {
		case "1,0":
			if !b.HasValue() || *b.Value != 3 {
				t.Errorf("box 1,0 value = %v, want 3", b.Value)
			}
		case "2,0", "2,1":
			if b.HasValue() {
				t.Errorf("box %s should have no value (outside data)", b.ID)
			}
		}
	}

	cfg.Data = nil
	for _, b := range Compute(cfg) {
		if b.HasValue() {
			t.Fatalf("box %s has a value without data", b.ID)
		}
	}
}

func TestComputeOuterDerived(t *testing.T) {
	base := Config{Shape: tensor.Shape{2, 3, 4, 5}, Spatial: SpatialDims{1, 2, 3}, MaxCellsPerDim: 8}
	explicit := base
	explicit.Outer = []int{0}
	if !reflect.DeepEqual(Compute(base), Compute(explicit)) {
		t.Error("nil Outer should match the derived outer dims")
	}
}

func TestComputeSkipsInvalidSlots(t *testing.T) {
	dup := Config{Shape: tensor.Shape{3}, Spatial: SpatialDims{0, 0, Unbound}, MaxCellsPerDim: 8}
	if got := len(Compute(dup)); got != 3 {
		t.Errorf("duplicate slot: len = %d, want 3", got)
	}

	outOfRange := Config{Shape: tensor.Shape{2, 2}, Spatial: SpatialDims{5, Unbound, Unbound}, MaxCellsPerDim: 8}
	if got := len(Compute(outOfRange)); got != 4 {
		t.Errorf("out-of-range slot: len = %d, want 4", got)
	}
}

func TestAppend(t *testing.T) {
	cfg := Config{Shape: tensor.Shape{2, 2}, Spatial: DefaultSpatialDims(2), MaxCellsPerDim: 8}

	buf := make([]Box, 0, 16)
	out := Append(buf, cfg)
	if len(out) != 4 {
		t.Fatalf("len = %d, want 4", len(out))
	}
	if &out[0] != &buf[:1][0] {
		t.Error("Append should reuse a buffer with enough capacity")
	}

	prefix := []Box{{ID: "keep"}}
	out = Append(prefix, cfg)
	if len(out) != 5 || out[0].ID != "keep" {
		t.Fatalf("Append should keep existing entries, got %d boxes", len(out))
	}
	c := BoundsOf(out[1:]).Center()
	if !vecNear(c, Vec3{}) {
		t.Errorf("appended boxes not centered: %v", c)
	}
}

func TestCountSaturates(t *testing.T) {
	shape := tensor.Shape{100000, 100000, 100000, 100000, 100000, 100000, 100000, 100000}
	cfg := Config{Shape: shape, Spatial: DefaultSpatialDims(8), MaxCellsPerDim: 100000}
	if got := Count(cfg); got != math.MaxInt {
		t.Errorf("Count = %d, want saturation at MaxInt", got)
	}
}

func TestModeText(t *testing.T) {
	for _, m := range []Mode{Tiling, Slicing} {
		text, err := m.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", m, err)
		}
		var back Mode
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != m {
			t.Errorf("round trip %v -> %q -> %v", m, text, back)
		}
	}

	var m Mode
	if err := m.UnmarshalText([]byte("stacked")); err == nil {
		t.Error("UnmarshalText should reject unknown modes")
	}
	if _, err := Mode(7).MarshalText(); err == nil {
		t.Error("MarshalText should reject invalid modes")
	}
}

func TestDefaultSpatialDims(t *testing.T) {
	tests := []struct {
		rank int
		want SpatialDims
	}{
		{0, SpatialDims{Unbound, Unbound, Unbound}},
		{1, SpatialDims{0, Unbound, Unbound}},
		{2, SpatialDims{1, 0, Unbound}},
		{3, SpatialDims{2, 1, 0}},
		{5, SpatialDims{4, 3, 2}},
	}
	for _, tt := range tests {
		if got := DefaultSpatialDims(tt.rank); got != tt.want {
			t.Errorf("DefaultSpatialDims(%d) = %v, want %v", tt.rank, got, tt.want)
		}
	}

	if got := OuterDims(5, DefaultSpatialDims(5)); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("OuterDims = %v, want [0 1]", got)
	}
}

func TestValueRangeAndNormalize(t *testing.T) {
	v := func(f float64) *float64 { return &f }
	boxes := []Box{{Value: v(3)}, {}, {Value: v(-1)}, {Value: v(7)}}

	lo, hi, ok := ValueRange(boxes)
	if !ok || lo != -1 || hi != 7 {
		t.Errorf("ValueRange = %v, %v, %v; want -1, 7, true", lo, hi, ok)
	}
	if _, _, ok := ValueRange([]Box{{}, {}}); ok {
		t.Error("ValueRange without values should report ok = false")
	}

	if got := Normalize(3, -1, 7); math.Abs(got-0.5) > eps {
		t.Errorf("Normalize(3, -1, 7) = %v, want 0.5", got)
	}
	if got := Normalize(2, 2, 2); got != 0.5 {
		t.Errorf("flat range should map to 0.5, got %v", got)
	}
	if got := Normalize(10, 0, 5); got != 1 {
		t.Errorf("Normalize should clamp to 1, got %v", got)
	}
}

func contains(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func vecNear(a, b Vec3) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
