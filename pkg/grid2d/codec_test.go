package grid2d

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

var beijing = Coordinate{
	LngDegree: 116, LngMinute: 18, LngSecond: 45.37, LngDirection: East,
	LatDegree: 39, LatMinute: 59, LatSecond: 35.38, LatDirection: North,
}

func TestEncode_KnownPoint(t *testing.T) {
	code, err := Encode(beijing, 10)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if code != "N50J47539B8255346152" {
		t.Fatalf("code=%s want N50J47539B8255346152", code)
	}

	sw := beijing
	sw.LngDirection, sw.LatDirection = West, South
	code, err = Encode(sw, 10)
	if err != nil {
		t.Fatalf("Encode SW: %v", err)
	}
	if code != "S11J47539B8255346152" {
		t.Fatalf("SW code=%s want S11J47539B8255346152", code)
	}
}

func TestEncode_SignFromDegreeWhenNoDirection(t *testing.T) {
	a, err := Encode(Coordinate{LngDegree: -116, LngMinute: 18, LatDegree: -39, LatMinute: 59}, 6)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := Encode(Coordinate{
		LngDegree: 116, LngMinute: 18, LngDirection: West,
		LatDegree: 39, LatMinute: 59, LatDirection: South,
	}, 6)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if a != b {
		t.Fatalf("negative degree %s != explicit direction %s", a, b)
	}
}

func TestDecode_KnownPoint(t *testing.T) {
	got, err := Decode("N50J47539B8255346152", FormDecimal)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if math.Abs(got.LngDegree-116.3126) > 1e-4 || math.Abs(got.LatDegree-39.9932) > 1e-4 {
		t.Fatalf("decimal=(%v,%v) want ~(116.3126,39.9932)", got.LngDegree, got.LatDegree)
	}

	dms, err := Decode("s11j47539b8255346152", FormDMS)
	if err != nil {
		t.Fatalf("Decode dms: %v", err)
	}
	want := Coordinate{
		LngDegree: 116, LngMinute: 18, LngSecond: 45.36962890625, LngDirection: West,
		LatDegree: 39, LatMinute: 59, LatSecond: 35.3798828125, LatDirection: South,
	}
	if diff := cmp.Diff(want, dms, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("dms mismatch (-want +got):\n%s", diff)
	}
}

func TestLevel_FromLengthOnly(t *testing.T) {
	for level := 0; level <= MaxLevel; level++ {
		code, err := Encode(beijing, level)
		if err != nil {
			t.Fatalf("Encode level %d: %v", level, err)
		}
		n, err := Level(code)
		if err != nil || n != level {
			t.Fatalf("Level(%s)=%d,%v want %d", code, n, err, level)
		}
		if l, _ := CodeLength(level); len(code) != l {
			t.Fatalf("level %d code %s has length %d want %d", level, code, len(code), l)
		}
	}
	for _, l := range []int{0, 2, 3, 5, 8, 10, 13, 15, 17, 19, 21} {
		code := string(make([]byte, l))
		if _, err := Level(code); !errors.Is(err, griderr.ErrLength) {
			t.Fatalf("length %d: err=%v want ErrLength", l, err)
		}
	}
}

func TestRoundTrip_WithinCell(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	halfLng, halfLat, _ := CellSize(MaxLevel)
	halfLng /= 2 * 3600
	halfLat /= 2 * 3600
	for i := 0; i < 2000; i++ {
		lng := rng.Float64()*359.99 - 179.99
		lat := rng.Float64()*175.9 - 87.95
		code, err := Encode(FromDecimal(lng, lat), MaxLevel)
		if err != nil {
			t.Fatalf("Encode(%v,%v): %v", lng, lat, err)
		}
		b, err := CellBounds(code)
		if err != nil {
			t.Fatalf("CellBounds(%s): %v", code, err)
		}
		if !b.Contains(lng, lat) {
			t.Fatalf("cell %s %+v does not contain (%v,%v)", code, b, lng, lat)
		}
		clng, clat := b.Center()
		if math.Abs(clng-lng) > halfLng+1e-12 || math.Abs(clat-lat) > halfLat+1e-12 {
			t.Fatalf("centre of %s too far from (%v,%v)", code, lng, lat)
		}
		again, err := Encode(FromDecimal(clng, clat), MaxLevel)
		if err != nil || again != code {
			t.Fatalf("centre re-encodes to %s,%v want %s", again, err, code)
		}
	}
}

func TestEncode_HemisphereEdges(t *testing.T) {
	cases := []struct {
		lng, lat float64
		prefix   string
	}{
		{0, 0, "N31A"},
		{-0.0001, -0.0001, "S30A"},
		{-6, 1, "N29A"},
		{-1, 1, "N30A"},
		{179.9, 1, "N60A"},
		{180, 1, "N00A"},
		{-180, 1, "N00A"},
		{-179.9, 1, "N01A"},
	}
	for _, tc := range cases {
		code, err := Encode(FromDecimal(tc.lng, tc.lat), 1)
		if err != nil {
			t.Fatalf("Encode(%v,%v): %v", tc.lng, tc.lat, err)
		}
		if code != tc.prefix {
			t.Fatalf("Encode(%v,%v)=%s want %s", tc.lng, tc.lat, code, tc.prefix)
		}
	}
	// exact west boundary mirrors to the next magnitude at every level
	code, err := Encode(FromDecimal(-6, 1), MaxLevel)
	if err != nil {
		t.Fatalf("Encode boundary: %v", err)
	}
	if _, err := Decode(code, FormDecimal); err != nil {
		t.Fatalf("boundary code %s does not decode: %v", code, err)
	}
}

func TestEncode_Rejects(t *testing.T) {
	cases := []struct {
		name string
		c    Coordinate
		lvl  int
		want error
	}{
		{"north pole band", FromDecimal(10, 88), 5, griderr.ErrRange},
		{"south pole band", FromDecimal(10, -88.5), 5, griderr.ErrRange},
		{"longitude", FromDecimal(181, 10), 5, griderr.ErrRange},
		{"level", FromDecimal(10, 10), 11, griderr.ErrRange},
		{"negative level", FromDecimal(10, 10), -1, griderr.ErrRange},
		{"direction", Coordinate{LngDegree: 10, LngDirection: "Q"}, 5, griderr.ErrFormat},
	}
	for _, tc := range cases {
		if _, err := Encode(tc.c, tc.lvl); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err=%v want %v", tc.name, err, tc.want)
		}
	}
	if _, err := Encode(FromDecimal(10, 87.99), 10); err != nil {
		t.Fatalf("87.99 should encode: %v", err)
	}
}

func TestDecode_Rejects(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{"N50J4", griderr.ErrLength},
		{"N50J47539B8255346152X", griderr.ErrLength},
		{"N61A", griderr.ErrRange},
		{"N50W", griderr.ErrRange},
		{"X50J", griderr.ErrFormat},
		{"N5XJ", griderr.ErrFormat},
		{"N50JC7", griderr.ErrRange},
		{"N50J4G", griderr.ErrFormat},
		{"N50J476", griderr.ErrRange},
		{"N50J47FA", griderr.ErrLength},
		{"N50J475FA", griderr.ErrRange},
		{"N50J475A9F0", griderr.ErrRange},
		{"N50J47539B84", griderr.ErrRange},
		{"N50J47539B8285", griderr.ErrRange},
	}
	for _, tc := range cases {
		if _, err := Decode(tc.code, FormDecimal); !errors.Is(err, tc.want) {
			t.Fatalf("Decode(%q): err=%v want %v", tc.code, err, tc.want)
		}
	}
	got, err := Decode("N60A", FormDecimal)
	if err != nil {
		t.Fatalf("N60A should decode: %v", err)
	}
	if got.LngDegree != 174 || got.LatDegree != 0 {
		t.Fatalf("N60A decoded to %+v", got)
	}
}

func TestShorten(t *testing.T) {
	code := "N50J47539B8255346152"
	want := map[int]string{
		9: "N50J47539B82553461",
		8: "N50J47539B825534",
		7: "N50J47539B8255",
		6: "N50J47539B82",
		5: "N50J47539B8",
		4: "N50J47539",
		3: "N50J475",
		2: "N50J47",
	}
	for level, w := range want {
		got, err := Shorten(code, level)
		if err != nil || got != w {
			t.Fatalf("Shorten(%d)=%s,%v want %s", level, got, err, w)
		}
	}
	got, err := Shorten("n50j47", 5)
	if err != nil || got != "N50J47" {
		t.Fatalf("Shorten coarser=%s,%v want N50J47", got, err)
	}
	if _, err := Shorten(code, 11); !errors.Is(err, griderr.ErrRange) {
		t.Fatalf("Shorten(11) err=%v want ErrRange", err)
	}
}

func TestCellBounds_LevelZeroAndSouth(t *testing.T) {
	b, err := CellBounds("S")
	if err != nil {
		t.Fatalf("CellBounds: %v", err)
	}
	if b.MinLat != -88 || b.MaxLat != 0 || b.MinLng != -180 || b.MaxLng != 180 {
		t.Fatalf("S bounds=%+v", b)
	}
	b, err = CellBounds("S30A")
	if err != nil {
		t.Fatalf("CellBounds: %v", err)
	}
	want := Bounds{MinLng: -6, MinLat: -4, MaxLng: 0, MaxLat: 0}
	if b != want {
		t.Fatalf("S30A bounds=%+v want %+v", b, want)
	}
}

func TestFragment(t *testing.T) {
	f, err := Fragment("N50J47539B8255346152", 3)
	if err != nil || f != "5" {
		t.Fatalf("Fragment(3)=%q,%v want 5", f, err)
	}
	if _, err := Fragment("N50J47", 3); !errors.Is(err, griderr.ErrRange) {
		t.Fatalf("Fragment past level err=%v want ErrRange", err)
	}
}
