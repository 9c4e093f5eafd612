// Package classify maps raw observation file names to canonical
// observation type identifiers.
//
// Canonical types name fragment templates in the assimilation template
// vocabulary; the classifier never invents identifiers. Each category
// carries its own declarative rule: a satellite-code table for
// altimetry, sensor-substring tables for SST/SSS, an unconditional
// fallback for sea ice. Matching is first-match-wins in rule order,
// which is documented behavior: a file name containing two codes
// classifies as whichever appears first in the table.
package classify

import (
	"strings"

	"github.com/obsforge-io/obsforge/log"
)

type ruleKind int

const (
	// ruleSatelliteCode matches "_<code>." or "_<code>_" in the file name.
	ruleSatelliteCode ruleKind = iota
	// ruleSensorSubstring matches a sensor name anywhere in the
	// lower-cased file name, with an optional generic fallback.
	ruleSensorSubstring
	// ruleUnconditional contributes the fallback for any non-empty
	// file list.
	ruleUnconditional
)

// pattern pairs a code or sensor substring with its canonical type.
type pattern struct {
	code      string
	canonical string
}

// categoryRule is the classification rule for one observation category.
type categoryRule struct {
	kind     ruleKind
	patterns []pattern
	// fallback is the generic canonical type contributed when no
	// pattern matches (sensor rules) or unconditionally (unconditional
	// rules). Empty means no fallback: unmatched files contribute
	// nothing.
	fallback string
}

// categoryRules holds the per-category rule table. Pattern order is
// load-bearing: it defines first-match-wins precedence.
var categoryRules = map[string]categoryRule{
	"adt": {
		kind: ruleSatelliteCode,
		patterns: []pattern{
			{"3a", "rads_adt_3a"},
			{"3b", "rads_adt_3b"},
			{"c2", "rads_adt_c2"},
			{"j3", "rads_adt_j3"},
			{"sa", "rads_adt_sa"},
		},
	},
	"sst": {
		kind: ruleSensorSubstring,
		patterns: []pattern{
			{"viirs", "sst_viirs_npp_l3u"},
			{"avhrr", "sst_avhrr_metop_l3u"},
			{"amsre", "sst_amsre_l3u"},
			{"modis", "sst_modis_l3u"},
		},
		fallback: "sst_generic",
	},
	"sss": {
		kind: ruleSensorSubstring,
		patterns: []pattern{
			{"smap", "sss_smap_l2"},
			{"smos", "sss_smos_l3"},
		},
		fallback: "sss_generic",
	},
	"icec": {
		kind:     ruleUnconditional,
		fallback: "icec_generic",
	},
	"insitu": {
		kind: ruleSensorSubstring,
		patterns: []pattern{
			{"drifter", "insitu_temp_surface_drifter"},
			{"salt", "insitu_salt_profile_argo"},
			{"temp", "insitu_temp_profile_argo"},
			{"argo", "insitu_temp_profile_argo"},
		},
		// No generic in-situ template exists; unmatched files
		// contribute nothing.
	},
}

// legacyAliases maps legacy observation type names to canonical types.
// An alias only applies when its target is present in the vocabulary.
var legacyAliases = map[string]string{
	"sea_surface_temperature": "sst_generic",
	"sea_surface_salinity":    "sss_smap_l2",
	"sea_level_anomaly":       "adt_rads_all",
	"temperature_profile":     "insitu_temp_profile_argo",
	"salinity_profile":        "insitu_salt_profile_argo",
	"argo_temperature":        "insitu_temp_profile_argo",
	"argo_salinity":           "insitu_salt_profile_argo",
	"drifter_temperature":     "insitu_temp_surface_drifter",
	"altimeter":               "adt_rads_all",
	"sst":                     "sst_generic",
	"sss":                     "sss_smap_l2",
}

// Classifier maps observation file names to canonical types.
type Classifier struct {
	logger *log.Logger
}

// New creates a Classifier.
func New(logger *log.Logger) *Classifier {
	if logger == nil {
		logger = log.NewLogger()
	}
	return &Classifier{logger: logger}
}

// MapCategoryToTypes classifies the files of one category into canonical
// observation types. The result is deduplicated and preserves first-seen
// order among the input files. An unrecognized category contributes
// nothing and logs a warning.
func (c *Classifier) MapCategoryToTypes(category string, files []string) []string {
	rule, ok := categoryRules[category]
	if !ok {
		c.logger.Warn("unknown observation category", map[string]any{
			"category": category,
		})
		return nil
	}

	switch rule.kind {
	case ruleSatelliteCode:
		return matchSatelliteCodes(rule.patterns, files)
	case ruleSensorSubstring:
		return matchSensorSubstrings(rule.patterns, rule.fallback, files)
	case ruleUnconditional:
		if len(files) == 0 {
			return nil
		}
		return []string{rule.fallback}
	default:
		return nil
	}
}

// matchSatelliteCodes contributes the canonical type of the first code
// found as "_<code>." or "_<code>_" in each file name. Files matching
// no code contribute nothing.
func matchSatelliteCodes(patterns []pattern, files []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, file := range files {
		for _, p := range patterns {
			if strings.Contains(file, "_"+p.code+".") || strings.Contains(file, "_"+p.code+"_") {
				if !seen[p.canonical] {
					seen[p.canonical] = true
					out = append(out, p.canonical)
				}
				break
			}
		}
	}
	return out
}

// matchSensorSubstrings contributes the canonical type of the first
// sensor substring found in each lower-cased file name, or the generic
// fallback (at most once) when no sensor matches and a fallback exists.
func matchSensorSubstrings(patterns []pattern, fallback string, files []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(canonical string) {
		if !seen[canonical] {
			seen[canonical] = true
			out = append(out, canonical)
		}
	}
	for _, file := range files {
		lower := strings.ToLower(file)
		matched := false
		for _, p := range patterns {
			if strings.Contains(lower, p.code) {
				add(p.canonical)
				matched = true
				break
			}
		}
		if !matched && fallback != "" {
			add(fallback)
		}
	}
	return out
}

// MatchSingleType resolves one free-form observation type string against
// the known vocabulary. Resolution order:
//
//  1. Exact membership: canonical identifiers are valid inputs and must
//     resolve to themselves.
//  2. Legacy alias table, only when the alias target is in the vocabulary.
//  3. Keyword fallback: the input is lower-cased and split on word
//     separators; the first vocabulary entry containing any keyword as a
//     substring wins.
//
// Returns ("", false) and logs a warning when nothing matches.
func (c *Classifier) MatchSingleType(rawType string, vocabulary []string) (string, bool) {
	inVocab := make(map[string]bool, len(vocabulary))
	for _, v := range vocabulary {
		inVocab[v] = true
	}

	if inVocab[rawType] {
		return rawType, true
	}

	if target, ok := legacyAliases[rawType]; ok && inVocab[target] {
		return target, true
	}

	keywords := splitKeywords(strings.ToLower(rawType))
	for _, entry := range vocabulary {
		entryLower := strings.ToLower(entry)
		for _, kw := range keywords {
			if strings.Contains(entryLower, kw) {
				return entry, true
			}
		}
	}

	c.logger.Warn("no canonical type for observation", map[string]any{
		"type": rawType,
	})
	return "", false
}

// splitKeywords splits a lower-cased type string on word separators,
// dropping empty tokens.
func splitKeywords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})
}
