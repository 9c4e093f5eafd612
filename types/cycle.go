// Package types defines core domain types for the obsforge cycle processor.
package types

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Product is a forecast product type. The set is closed and known at
// scan time; directory names outside it are skipped by the scanner.
type Product string

const (
	// ProductGDAS is the Global Data Assimilation System product.
	ProductGDAS Product = "gdas"
	// ProductGFS is the Global Forecast System product.
	ProductGFS Product = "gfs"
)

// Products returns all known product types in canonical order.
func Products() []Product {
	return []Product{ProductGDAS, ProductGFS}
}

// ParseProduct validates a product string against the known set.
func ParseProduct(s string) (Product, error) {
	switch Product(s) {
	case ProductGDAS, ProductGFS:
		return Product(s), nil
	default:
		return "", fmt.Errorf("unknown product type: %q (must be gdas or gfs)", s)
	}
}

var datePattern = regexp.MustCompile(`^\d{8}$`)

// CycleKey identifies a single forecast initialization instance.
// It is immutable after construction and usable as a map and sort key;
// the sort order is lexicographic on (product, date, zero-padded hour).
type CycleKey struct {
	Product Product
	// Date in YYYYMMDD form.
	Date string
	// Hour of day, 0-23. Always rendered zero-padded to two digits.
	Hour int
}

// NewCycleKey validates and constructs a CycleKey.
func NewCycleKey(product Product, date string, hour int) (CycleKey, error) {
	if _, err := ParseProduct(string(product)); err != nil {
		return CycleKey{}, err
	}
	if !datePattern.MatchString(date) {
		return CycleKey{}, fmt.Errorf("invalid cycle date: %q (must be YYYYMMDD)", date)
	}
	if hour < 0 || hour > 23 {
		return CycleKey{}, fmt.Errorf("invalid cycle hour: %d (must be 0-23)", hour)
	}
	return CycleKey{Product: product, Date: date, Hour: hour}, nil
}

// HourString returns the hour zero-padded to two digits.
func (k CycleKey) HourString() string {
	return fmt.Sprintf("%02d", k.Hour)
}

// DirName returns the top-level catalog directory name, e.g. "gdas.20210831".
func (k CycleKey) DirName() string {
	return fmt.Sprintf("%s.%s", k.Product, k.Date)
}

// Name returns the full cycle identity string, e.g. "gdas.20210831.18".
// This string sorts cycles in chronological order within a product.
func (k CycleKey) Name() string {
	return fmt.Sprintf("%s.%s.%s", k.Product, k.Date, k.HourString())
}

// Less reports whether k sorts before other under the canonical
// (product, date, zero-padded hour) ordering.
func (k CycleKey) Less(other CycleKey) bool {
	return k.Name() < other.Name()
}

// ParseCycleName parses a full cycle identity string, the inverse of
// Name: "gdas.20210831.18" yields the corresponding CycleKey.
func ParseCycleName(s string) (CycleKey, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return CycleKey{}, fmt.Errorf("invalid cycle name: %q (must be <product>.<YYYYMMDD>.<HH>)", s)
	}
	hour, ok := ParseHourDir(parts[2])
	if !ok {
		return CycleKey{}, fmt.Errorf("invalid cycle hour in %q", s)
	}
	return NewCycleKey(Product(parts[0]), parts[1], hour)
}

// ParseHourDir parses an hour directory name. Hour directories may be
// unpadded ("6") or padded ("06"); anything non-numeric or out of range
// is rejected.
func ParseHourDir(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	h, err := strconv.Atoi(name)
	if err != nil || h > 23 {
		return 0, false
	}
	return h, true
}
