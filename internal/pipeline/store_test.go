package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStore_CachesByModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deals.csv")

	write := func(content string) {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write fixture: %v", err)
		}
	}

	write("0,60\n0,40\n")
	store := NewStore(0)

	first, err := store.DealValues(path)
	if err != nil {
		t.Fatalf("DealValues() error = %v", err)
	}
	if len(first["0"]) != 2 {
		t.Fatalf("Expected 2 values, got %d", len(first["0"]))
	}

	// Rewrite with a bumped modtime; the store must pick up the change.
	write("0,60\n0,40\n0,55\n")
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("Failed to bump modtime: %v", err)
	}

	second, err := store.DealValues(path)
	if err != nil {
		t.Fatalf("DealValues() after rewrite error = %v", err)
	}
	if len(second["0"]) != 3 {
		t.Errorf("Expected reload to see 3 values, got %d", len(second["0"]))
	}
}

func TestStore_JSONDetection(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"deals_data.json", true},
		{"/data/deals.json", true},
		{".json", true}, // bare dotfile name still selects the JSON parser
		{"deals.csv", false},
		{"deals.json.csv", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isJSONPath(tt.path); got != tt.want {
			t.Errorf("isJSONPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestStore_JSONFileUsesJSONParser(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".json")
	if err := os.WriteFile(path, []byte(`{"0": [60, 40]}`), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	store := NewStore(0)
	table, err := store.DealValues(path)
	if err != nil {
		t.Fatalf("DealValues() error = %v", err)
	}
	if len(table["0"]) != 2 {
		t.Errorf("Expected 2 values from JSON file, got %d", len(table["0"]))
	}
}

func TestStore_MissingFile(t *testing.T) {
	store := NewStore(0)
	if _, err := store.Opportunities(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Errorf("Expected error for missing file")
	}
}
