package grid3d

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/mohammed-shakir/beidou-grid/pkg/elevation"
	"github.com/mohammed-shakir/beidou-grid/pkg/grid2d"
	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

var summit = CoordinateWithElevation{
	Coordinate: grid2d.Coordinate{
		LngDegree: 116, LngMinute: 18, LngSecond: 45.37, LngDirection: grid2d.East,
		LatDegree: 39, LatMinute: 59, LatSecond: 35.38, LatDirection: grid2d.North,
	},
	Elevation: 8848.86,
}

func TestEncode_JoinsPlanarAndElevation(t *testing.T) {
	code, err := Encode(summit, elevation.DefaultRadius)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(code) != Length {
		t.Fatalf("len=%d want %d", len(code), Length)
	}
	if !strings.HasPrefix(code, "N50J47539B8255346152") {
		t.Fatalf("planar half of %s", code)
	}
	ele, _ := elevation.Encode(summit.Elevation, elevation.DefaultRadius)
	if !strings.HasSuffix(code, ele) {
		t.Fatalf("elevation half of %s want %s", code, ele)
	}
}

func TestDecode_RoundTripInsideBox(t *testing.T) {
	code, err := Encode(summit, elevation.DefaultRadius)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(code, grid2d.FormDecimal, elevation.DefaultRadius)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if math.Abs(got.LngDegree-116.3126) > 1e-4 || math.Abs(got.LatDegree-39.9932) > 1e-4 {
		t.Fatalf("decoded (%v,%v)", got.LngDegree, got.LatDegree)
	}

	box, err := CellBox(code, elevation.DefaultRadius)
	if err != nil {
		t.Fatalf("CellBox: %v", err)
	}
	lng, lat := summit.Decimal()
	if !box.Contains(lng, lat) {
		t.Fatalf("box %+v misses (%v,%v)", box.Bounds, lng, lat)
	}
	if !(box.MinElevation <= summit.Elevation && summit.Elevation < box.MaxElevation) {
		t.Fatalf("elevation %v not in [%v,%v)", summit.Elevation, box.MinElevation, box.MaxElevation)
	}
	if got.Elevation != box.MinElevation {
		t.Fatalf("decoded elevation %v want lower face %v", got.Elevation, box.MinElevation)
	}
}

func TestElevationRange_BelowGround(t *testing.T) {
	ele, err := elevation.Encode(-250, elevation.DefaultRadius)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	lo, hi, err := ElevationRange(ele, elevation.DefaultRadius)
	if err != nil {
		t.Fatalf("ElevationRange: %v", err)
	}
	if !(lo <= -250 && -250 < hi) {
		t.Fatalf("-250 not in [%v,%v)", lo, hi)
	}
}

func TestElevationRange_ContainsHeight(t *testing.T) {
	r := elevation.DefaultRadius
	for _, h := range []float64{-120000, -250, -3.5, -0.001, 0, 0.5, 1234.5, 8848.86} {
		for _, level := range []int{10, 6, 3} {
			ele, err := elevation.EncodeLevel(h, r, level)
			if err != nil {
				t.Fatalf("EncodeLevel(%v,%d): %v", h, level, err)
			}
			lo, hi, err := ElevationRange(ele, r)
			if err != nil {
				t.Fatalf("ElevationRange(%s): %v", ele, err)
			}
			if !(lo <= h && h < hi) {
				t.Fatalf("h=%v level=%d code=%s: not in [%v,%v)", h, level, ele, lo, hi)
			}
		}
	}
}

func TestElevationRange_NegativeZeroMagnitude(t *testing.T) {
	r := elevation.DefaultRadius
	lo, hi, err := ElevationRange("100000000000", r)
	if err != nil {
		t.Fatalf("ElevationRange: %v", err)
	}
	glo, ghi, err := ElevationRange("000000000000", r)
	if err != nil {
		t.Fatalf("ElevationRange ground: %v", err)
	}
	if lo != 0 || lo != glo || hi != ghi {
		t.Fatalf("got [%v,%v) want [%v,%v)", lo, hi, glo, ghi)
	}
	if !(hi > 0) {
		t.Fatalf("upper face %v not above ground", hi)
	}
}

func TestElevationRange_Errors(t *testing.T) {
	if _, _, err := ElevationRange("000000000000", 0); !errors.Is(err, griderr.ErrRange) {
		t.Fatalf("radius 0: %v", err)
	}
	if _, _, err := ElevationRange("00", elevation.DefaultRadius); !errors.Is(err, griderr.ErrLength) {
		t.Fatalf("length 2: %v", err)
	}
}

func TestCellBox_BelowGround(t *testing.T) {
	c := summit
	c.Elevation = -250
	code, err := Encode(c, elevation.DefaultRadius)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	box, err := CellBox(code, elevation.DefaultRadius)
	if err != nil {
		t.Fatalf("CellBox: %v", err)
	}
	if !(box.MinElevation <= -250 && -250 < box.MaxElevation) {
		t.Fatalf("-250 not in [%v,%v)", box.MinElevation, box.MaxElevation)
	}
}

func TestNeighbors_Block(t *testing.T) {
	code, err := Encode(summit, elevation.DefaultRadius)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Neighbors(code)
	if err != nil {
		t.Fatalf("Neighbors: %v", err)
	}
	if len(got) != 27 {
		t.Fatalf("len=%d want 27", len(got))
	}
	if got[13] != code {
		t.Fatalf("centre=%s want %s", got[13], code)
	}
	seen := map[string]bool{}
	for _, g := range got {
		if seen[g] {
			t.Fatalf("duplicate %s", g)
		}
		seen[g] = true
	}
	_, ele, _ := Split(code)
	up, _ := elevation.Neighbor(ele, 1)
	if got[14] != code[:20]+up {
		t.Fatalf("got[14]=%s want %s", got[14], code[:20]+up)
	}
}

func TestRejects(t *testing.T) {
	if _, err := Decode("N50J47539B8255346152", grid2d.FormDecimal, elevation.DefaultRadius); !errors.Is(err, griderr.ErrLength) {
		t.Fatalf("planar only err=%v want ErrLength", err)
	}
	if _, err := Neighbors("N50J47539B825534615206371FF17777"); !errors.Is(err, griderr.ErrUnrepresentable) {
		t.Fatalf("top of range err=%v want ErrUnrepresentable", err)
	}
	bad := summit
	bad.LatDegree = 89
	if _, err := Encode(bad, elevation.DefaultRadius); !errors.Is(err, griderr.ErrRange) {
		t.Fatalf("polar err=%v want ErrRange", err)
	}
	bad = summit
	bad.Elevation = math.NaN()
	if _, err := Encode(bad, elevation.DefaultRadius); !errors.Is(err, griderr.ErrRange) {
		t.Fatalf("NaN err=%v want ErrRange", err)
	}
}
