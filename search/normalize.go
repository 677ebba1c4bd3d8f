package search

import (
	"fmt"
	"strings"
)

// Canonical record shapes per family: field selection and renaming only,
// never a semantic transform.
var (
	searchRecordFields = []string{
		"systemid", "storageid", "name", "description", "date", "added",
		"bucket", "media", "type", "size", "xscore",
	}
	phonebookRecordFields = []string{
		"selectorvalue", "selectortype", "selectortypeh",
	}
	identityRecordFields = []string{
		"systemid", "storageid", "name", "date", "bucket", "line",
	}
)

// maxLineLen caps the merged identity line field.
const maxLineLen = 128

func project(raw map[string]any, fields []string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := raw[f]; ok {
			out[f] = v
		}
	}
	return out
}

func projectAll(records []map[string]any, fields []string) []map[string]any {
	out := make([]map[string]any, len(records))
	for i, r := range records {
		out[i] = project(r, fields)
	}
	return out
}

func normalizeSearchRecords(records []map[string]any) []map[string]any {
	return projectAll(records, searchRecordFields)
}

func normalizeIdentityRecords(records []map[string]any) []map[string]any {
	return projectAll(records, identityRecordFields)
}

// mergeIdentityRecords folds identity records sharing a storage identifier
// into one record per group, in input order. The first record of a group
// seeds the identifier and metadata fields; the line accumulator starts
// empty and every contributing line, the first included, is appended
// through the same join, so a group of "foo" and "bar" yields "\nfoo\nbar".
// Records without a storage identifier stay separate.
func mergeIdentityRecords(records []map[string]any) []map[string]any {
	type group struct {
		record map[string]any
		line   strings.Builder
	}

	var order []string
	groups := make(map[string]*group)

	for i, rec := range records {
		sid, _ := rec["storageid"].(string)
		key := sid
		if key == "" {
			key = fmt.Sprintf("\x00ungrouped-%d", i)
		}

		g, ok := groups[key]
		if !ok {
			seed := make(map[string]any, len(rec))
			for k, v := range rec {
				if k == "line" {
					continue
				}
				seed[k] = v
			}
			g = &group{record: seed}
			groups[key] = g
			order = append(order, key)
		}

		if line, ok := rec["line"].(string); ok {
			g.line.WriteString("\n")
			g.line.WriteString(strings.TrimSpace(line))
		}
	}

	out := make([]map[string]any, 0, len(order))
	for _, key := range order {
		g := groups[key]
		if g.line.Len() > 0 {
			g.record["line"] = truncateLine(g.line.String())
		}
		out = append(out, g.record)
	}
	return out
}

// truncateLine cuts a merged line at maxLineLen characters and marks how
// much was dropped.
func truncateLine(s string) string {
	runes := []rune(s)
	if len(runes) <= maxLineLen {
		return s
	}
	return string(runes[:maxLineLen]) + fmt.Sprintf("...(More %d characters)", len(runes)-maxLineLen)
}
