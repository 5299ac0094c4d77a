package grid2d

import (
	"errors"
	"testing"

	"github.com/mohammed-shakir/beidou-grid/pkg/griderr"
)

func TestGetNeighbors_SameParent(t *testing.T) {
	got, err := GetNeighbors("N50H05142")
	if err != nil {
		t.Fatalf("GetNeighbors: %v", err)
	}
	want := []string{
		"N50H05131", "N50H05132", "N50H05133",
		"N50H05141", "N50H05142", "N50H05143",
		"N50H05151", "N50H05152", "N50H05153",
	}
	if len(got) != 9 {
		t.Fatalf("len=%d want 9", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("neighbor[%d]=%s want %s (all=%v)", i, got[i], want[i], got)
		}
	}
}

func TestGetNeighbors_CentreIsSelf(t *testing.T) {
	for _, code := range []string{"N50J47539B8255346152", "S11J475", "N31A", "S30A00000000000000"} {
		ns, err := GetNeighbors(code)
		if err != nil {
			t.Fatalf("GetNeighbors(%s): %v", code, err)
		}
		if len(ns) != 9 || ns[4] != code {
			t.Fatalf("GetNeighbors(%s)=%v", code, ns)
		}
		self, err := GetRelativeGrid(code, 0, 0)
		if err != nil || self != code {
			t.Fatalf("GetRelativeGrid(%s,0,0)=%s,%v", code, self, err)
		}
		seen := map[string]bool{}
		for _, n := range ns {
			if seen[n] {
				t.Fatalf("duplicate neighbor %s of %s", n, code)
			}
			seen[n] = true
		}
	}
}

func TestGetRelativeGrid_CrossesParent(t *testing.T) {
	got, err := GetRelativeGrid("N50J475E9", 1, 0)
	if err != nil {
		t.Fatalf("GetRelativeGrid: %v", err)
	}
	if got != "N50J57409" {
		t.Fatalf("got %s want N50J57409", got)
	}
	back, err := GetRelativeGrid(got, -1, 0)
	if err != nil || back != "N50J475E9" {
		t.Fatalf("back=%s,%v want N50J475E9", back, err)
	}
}

func TestGetRelativeGrid_HemisphereAxes(t *testing.T) {
	cases := []struct {
		code   string
		dx, dy int
		want   string
	}{
		{"N50A", 0, -1, "S50A"},
		{"S50A", 0, -1, "N50A"},
		{"N31A", -1, 0, "N30A"},
		{"N30A", 1, 0, "N29A"},
		{"N30A", -1, 0, "N31A"},
		{"N60A", 1, 0, "N01A"},
		{"N01A", 1, 0, "N60A"},
	}
	for _, tc := range cases {
		got, err := GetRelativeGrid(tc.code, tc.dx, tc.dy)
		if err != nil {
			t.Fatalf("GetRelativeGrid(%s,%d,%d): %v", tc.code, tc.dx, tc.dy, err)
		}
		if got != tc.want {
			t.Fatalf("GetRelativeGrid(%s,%d,%d)=%s want %s", tc.code, tc.dx, tc.dy, got, tc.want)
		}
	}
}

func TestGetRelativeGrid_Rejects(t *testing.T) {
	if _, err := GetRelativeGrid("N50V", 0, 1); !errors.Is(err, griderr.ErrRange) {
		t.Fatalf("past polar band err=%v want ErrRange", err)
	}
	if _, err := GetRelativeGrid("N", 1, 0); !errors.Is(err, griderr.ErrRange) {
		t.Fatalf("level 0 err=%v want ErrRange", err)
	}
	if _, err := GetRelativeGrid("N50", 1, 0); !errors.Is(err, griderr.ErrLength) {
		t.Fatalf("bad length err=%v want ErrLength", err)
	}
}

func TestGetOffset(t *testing.T) {
	cases := []struct {
		ref, tgt string
		dx, dy   int
	}{
		{"N50H05142", "N50H05153", 1, 1},
		{"N50J475E9", "N50J57409", 1, 0},
		{"N50J57409", "N50J475E9", -1, 0},
		{"N50A", "S50A", 0, -1},
		{"N31A", "N30A", -1, 0},
		{"N30A", "N31A", -1, 0},
		{"N30A", "N28A", 2, 0},
		{"N60A", "N01A", 1, 0},
		// finer target is shortened to the reference level
		{"N50J4754909", "N50J47539B8255346152", -4, -1},
		{"S11J4754909", "S11J47539B8255346152", -4, -1},
	}
	for _, tc := range cases {
		dx, dy, err := GetOffset(tc.ref, tc.tgt)
		if err != nil {
			t.Fatalf("GetOffset(%s,%s): %v", tc.ref, tc.tgt, err)
		}
		if dx != tc.dx || dy != tc.dy {
			t.Fatalf("GetOffset(%s,%s)=(%d,%d) want (%d,%d)", tc.ref, tc.tgt, dx, dy, tc.dx, tc.dy)
		}
	}
	if _, _, err := GetOffset("N50J47539", "N50J47"); !errors.Is(err, griderr.ErrRange) {
		t.Fatalf("coarser target err=%v want ErrRange", err)
	}
}

func TestGetOffset_InvertsRelativeGrid(t *testing.T) {
	for _, ref := range []string{"N50J47539B8", "N31A0000000", "S30A0000000", "N50J47539B82553461"} {
		for dx := -9; dx <= 9; dx += 3 {
			for dy := -9; dy <= 9; dy += 3 {
				tgt, err := GetRelativeGrid(ref, dx, dy)
				if err != nil {
					t.Fatalf("GetRelativeGrid(%s,%d,%d): %v", ref, dx, dy, err)
				}
				gx, gy, err := GetOffset(ref, tgt)
				if err != nil {
					t.Fatalf("GetOffset(%s,%s): %v", ref, tgt, err)
				}
				if gx != dx || gy != dy {
					t.Fatalf("ref %s offset (%d,%d) -> %s -> (%d,%d)", ref, dx, dy, tgt, gx, gy)
				}
			}
		}
	}
}

func TestGetRelativeGrid_Antimeridian(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"N60A", "N01A"},
		{"N01A", "N60A"},
		{"S60V", "S01V"},
	}
	for _, tc := range cases {
		got, err := GetRelativeGrid(tc.code, 1, 0)
		if err != nil {
			t.Fatalf("GetRelativeGrid(%s,1,0): %v", tc.code, err)
		}
		if got != tc.want {
			t.Fatalf("GetRelativeGrid(%s,1,0)=%s want %s", tc.code, got, tc.want)
		}
		dx, dy, err := GetOffset(tc.code, got)
		if err != nil || dx != 1 || dy != 0 {
			t.Fatalf("GetOffset(%s,%s)=(%d,%d),%v want (1,0)", tc.code, got, dx, dy, err)
		}
	}
}
