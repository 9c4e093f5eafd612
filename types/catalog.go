package types

// KnownCategories is the closed set of observation category directories
// scanned under each cycle's ocean/ subtree, in the fixed order the
// scanner (and everything downstream) visits them. The order matters:
// classification output order follows it, and rendered configuration
// documents must be reproducible across runs.
var KnownCategories = []string{"adt", "icec", "sss", "sst", "insitu"}

// ObservationCatalog maps an observation category to the ordered list of
// data file names found under that category directory for one cycle.
// Categories with no matching files are omitted entirely, never present
// as empty lists.
type ObservationCatalog map[string][]string

// Categories returns the categories present in the catalog, in
// KnownCategories order. Unknown keys (never produced by the scanner,
// but possible in hand-built catalogs) follow in unspecified order.
func (c ObservationCatalog) Categories() []string {
	out := make([]string, 0, len(c))
	seen := make(map[string]bool, len(c))
	for _, cat := range KnownCategories {
		if _, ok := c[cat]; ok {
			out = append(out, cat)
			seen[cat] = true
		}
	}
	for cat := range c {
		if !seen[cat] {
			out = append(out, cat)
		}
	}
	return out
}

// FileCount returns the total number of files across all categories.
func (c ObservationCatalog) FileCount() int {
	n := 0
	for _, files := range c {
		n += len(files)
	}
	return n
}
