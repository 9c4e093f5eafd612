package types

import (
	"sort"
	"testing"
)

func TestNewCycleKey_Valid(t *testing.T) {
	k, err := NewCycleKey(ProductGDAS, "20210831", 6)
	if err != nil {
		t.Fatalf("NewCycleKey failed: %v", err)
	}
	if k.Name() != "gdas.20210831.06" {
		t.Errorf("Name() = %q, want %q", k.Name(), "gdas.20210831.06")
	}
	if k.DirName() != "gdas.20210831" {
		t.Errorf("DirName() = %q, want %q", k.DirName(), "gdas.20210831")
	}
	if k.HourString() != "06" {
		t.Errorf("HourString() = %q, want %q", k.HourString(), "06")
	}
}

func TestNewCycleKey_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		date    string
		hour    int
	}{
		{"bad product", Product("ecmwf"), "20210831", 0},
		{"short date", ProductGFS, "2021831", 0},
		{"non-numeric date", ProductGFS, "2021abcd", 0},
		{"hour too large", ProductGFS, "20210831", 24},
		{"negative hour", ProductGFS, "20210831", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCycleKey(tt.product, tt.date, tt.hour); err == nil {
				t.Errorf("NewCycleKey(%q, %q, %d) succeeded, want error", tt.product, tt.date, tt.hour)
			}
		})
	}
}

func TestCycleKey_SortOrder(t *testing.T) {
	keys := []CycleKey{
		{ProductGFS, "20210831", 0},
		{ProductGDAS, "20210901", 6},
		{ProductGDAS, "20210831", 18},
		{ProductGDAS, "20210831", 6},
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	want := []string{
		"gdas.20210831.06",
		"gdas.20210831.18",
		"gdas.20210901.06",
		"gfs.20210831.00",
	}
	for i, k := range keys {
		if k.Name() != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, k.Name(), want[i])
		}
	}
}

func TestParseCycleName(t *testing.T) {
	k, err := ParseCycleName("gdas.20210831.18")
	if err != nil {
		t.Fatalf("ParseCycleName: %v", err)
	}
	if k != (CycleKey{ProductGDAS, "20210831", 18}) {
		t.Errorf("key = %+v", k)
	}
	if k.Name() != "gdas.20210831.18" {
		t.Errorf("round trip = %q", k.Name())
	}

	for _, bad := range []string{"", "gdas.20210831", "ecmwf.20210831.18", "gdas.2021831.18", "gdas.20210831.99"} {
		if _, err := ParseCycleName(bad); err == nil {
			t.Errorf("ParseCycleName(%q) succeeded, want error", bad)
		}
	}
}

func TestParseHourDir(t *testing.T) {
	tests := []struct {
		in   string
		hour int
		ok   bool
	}{
		{"00", 0, true},
		{"6", 6, true},
		{"18", 18, true},
		{"23", 23, true},
		{"24", 0, false},
		{"", 0, false},
		{"ocean", 0, false},
		{"-1", 0, false},
		{"1a", 0, false},
	}
	for _, tt := range tests {
		hour, ok := ParseHourDir(tt.in)
		if ok != tt.ok || hour != tt.hour {
			t.Errorf("ParseHourDir(%q) = (%d, %v), want (%d, %v)", tt.in, hour, ok, tt.hour, tt.ok)
		}
	}
}

func TestObservationCatalog_Categories(t *testing.T) {
	cat := ObservationCatalog{
		"sst":  {"a.nc"},
		"adt":  {"b.nc", "c.nc"},
		"icec": {"d.nc"},
	}
	got := cat.Categories()
	want := []string{"adt", "icec", "sst"}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if cat.FileCount() != 4 {
		t.Errorf("FileCount() = %d, want 4", cat.FileCount())
	}
}
