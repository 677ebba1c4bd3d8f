package search

import (
	"strings"
	"testing"
)

func TestNormalizeSearchRecordsProjects(t *testing.T) {
	records := []map[string]any{
		{
			"systemid":    "sys-1",
			"storageid":   "sto-1",
			"name":        "dump.txt",
			"bucket":      "pastes",
			"media":       float64(1),
			"xscore":      float64(90),
			"instore":     true,
			"accesslevel": float64(0),
		},
	}

	got := normalizeSearchRecords(records)

	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0]["name"] != "dump.txt" || got[0]["systemid"] != "sys-1" {
		t.Errorf("selected fields missing: %v", got[0])
	}
	if _, ok := got[0]["instore"]; ok {
		t.Error("unselected field survived projection")
	}
	if _, ok := got[0]["accesslevel"]; ok {
		t.Error("unselected field survived projection")
	}
}

func TestMergeIdentityRecordsByStorageID(t *testing.T) {
	records := []map[string]any{
		{"storageid": "S1", "systemid": "sys-a", "name": "breach.csv", "line": "foo"},
		{"storageid": "S1", "systemid": "sys-b", "name": "other.csv", "line": "bar"},
	}

	got := mergeIdentityRecords(records)

	if len(got) != 1 {
		t.Fatalf("got %d records, want 1 merged record", len(got))
	}
	if got[0]["line"] != "\nfoo\nbar" {
		t.Errorf("line = %q, want %q", got[0]["line"], "\nfoo\nbar")
	}
	// the first record seeds the metadata
	if got[0]["systemid"] != "sys-a" || got[0]["name"] != "breach.csv" {
		t.Errorf("metadata not seeded from first record: %v", got[0])
	}
}

func TestMergeIdentityRecordsPreservesInputOrder(t *testing.T) {
	records := []map[string]any{
		{"storageid": "S2", "line": "second-group"},
		{"storageid": "S1", "line": "first-of-one"},
		{"storageid": "S2", "line": "more"},
	}

	got := mergeIdentityRecords(records)

	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0]["storageid"] != "S2" || got[1]["storageid"] != "S1" {
		t.Errorf("groups out of input order: %v", got)
	}
	if got[0]["line"] != "\nsecond-group\nmore" {
		t.Errorf("line = %q", got[0]["line"])
	}
}

func TestMergeIdentityRecordsTrimsLines(t *testing.T) {
	records := []map[string]any{
		{"storageid": "S1", "line": "  padded  "},
	}

	got := mergeIdentityRecords(records)
	if got[0]["line"] != "\npadded" {
		t.Errorf("line = %q, want %q", got[0]["line"], "\npadded")
	}
}

func TestMergeIdentityRecordsWithoutStorageIDStaySeparate(t *testing.T) {
	records := []map[string]any{
		{"line": "a"},
		{"line": "b"},
	}

	got := mergeIdentityRecords(records)
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2 separate", len(got))
	}
}

func TestTruncateLine(t *testing.T) {
	long := strings.Repeat("x", 140)
	got := truncateLine(long)

	want := strings.Repeat("x", 128) + "...(More 12 characters)"
	if got != want {
		t.Errorf("truncateLine = %q, want %q", got, want)
	}
}

func TestTruncateLineShortUnchanged(t *testing.T) {
	if got := truncateLine("short"); got != "short" {
		t.Errorf("truncateLine = %q, want unchanged", got)
	}
	exact := strings.Repeat("y", 128)
	if got := truncateLine(exact); got != exact {
		t.Errorf("exactly 128 characters must not be truncated")
	}
}
