package importing

import "testing"

func TestWithFileSourceLeavesReceiverUntouched(t *testing.T) {
	shared := Options{"separator": ";"}

	snap := shared.WithFileSource("data.csv")
	if got := snap.String(FileSourceKey, ""); got != "data.csv" {
		t.Errorf("expected fileSource data.csv, got %q", got)
	}
	if got := snap.String("separator", ""); got != ";" {
		t.Errorf("snapshot lost option: %q", got)
	}
	if _, ok := shared[FileSourceKey]; ok {
		t.Error("receiver was mutated")
	}

	// Snapshots from the same base are independent.
	other := shared.WithFileSource("other.csv")
	if snap.String(FileSourceKey, "") == other.String(FileSourceKey, "") {
		t.Error("snapshots share provenance")
	}
}

func TestOptionAccessors(t *testing.T) {
	opts := Options{
		"s": "text",
		"i": 3,
		"f": float64(4),
		"b": true,
	}

	if got := opts.String("s", "x"); got != "text" {
		t.Errorf("String: got %q", got)
	}
	if got := opts.String("missing", "x"); got != "x" {
		t.Errorf("String fallback: got %q", got)
	}
	if got := opts.Int("i", 0); got != 3 {
		t.Errorf("Int: got %d", got)
	}
	if got := opts.Int("f", 0); got != 4 {
		t.Errorf("Int from float64: got %d", got)
	}
	if got := opts.Int("s", 9); got != 9 {
		t.Errorf("Int wrong type fallback: got %d", got)
	}
	if !opts.Bool("b", false) {
		t.Error("Bool: expected true")
	}
	if opts.Bool("missing", false) {
		t.Error("Bool fallback: expected false")
	}
}
