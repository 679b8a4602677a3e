package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsCityName(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
	}{
		{"", true},
		{"Paris", true},
		{"new york", true},
		{"Winston-Salem", true},
		{"Nuku'alofa", true},
		{"São Paulo", true},
		{"Zürich", true},
		{"東京", true},
		{"Saint\tDenis", true},
		{"Paris!", false},
		{"Area 51", false},
		{"lon_don", false},
		{"a.b", false},
		{"city?", false},
	}

	for _, tc := range testCases {
		if got := IsCityName(tc.input); got != tc.expected {
			t.Errorf("IsCityName(%q) = %v, expected %v", tc.input, got, tc.expected)
		}
	}
}

func TestFormatWithCommas(t *testing.T) {
	testCases := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{23000, "23,000"},
		{543000, "543,000"},
		{9648000, "9,648,000"},
		{-1234567, "-1,234,567"},
	}

	for _, tc := range testCases {
		if got := FormatWithCommas(tc.input); got != tc.expected {
			t.Errorf("FormatWithCommas(%d) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Ho Chi Minh City", 6); got != "Ho Ch…" {
		t.Errorf("unexpected truncation: %q", got)
	}
	if got := Truncate("Lima", 10); got != "Lima" {
		t.Errorf("short strings should pass through, got %q", got)
	}
}

type sample struct {
	Name  string `toml:"name"`
	Limit int    `toml:"limit"`
}

func TestTOMLRoundTripAndRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if err := SaveTOMLFile(sample{Name: "weathrly", Limit: 7}, path); err != nil {
		t.Fatalf("SaveTOMLFile: %v", err)
	}
	if !FileExists(path) {
		t.Fatal("expected file to exist after save")
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %v", entries)
	}

	var got sample
	if err := DecodeTOMLFile(path, &got); err != nil {
		t.Fatalf("DecodeTOMLFile: %v", err)
	}
	if got.Name != "weathrly" || got.Limit != 7 {
		t.Errorf("unexpected decode: %+v", got)
	}

	raw, err := DecodeTOMLTable(path)
	if err != nil {
		t.Fatalf("DecodeTOMLTable: %v", err)
	}
	if v, ok := raw.Int("limit"); !ok || v != 7 {
		t.Errorf("Int = %d, %v", v, ok)
	}
	if _, ok := Value[bool](raw, "name"); ok {
		t.Error("Value[bool] should reject non-bool values")
	}
	if v, ok := Value[string](raw, "name"); !ok || v != "weathrly" {
		t.Errorf("Value[string] = %q, %v", v, ok)
	}
}

func TestDecodeTOMLStrictVersusTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	body := "name = \"weathrly\"\nlimit = \"seven\"\n\n[server]\naddr = \":80\"\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	var strict sample
	if err := DecodeTOMLFile(path, &strict); err == nil {
		t.Fatal("strict decode should fail on a string limit")
	}

	raw, err := DecodeTOMLTable(path)
	if err != nil {
		t.Fatalf("DecodeTOMLTable: %v", err)
	}
	if _, ok := raw.Int("limit"); ok {
		t.Error("a string limit is not an int")
	}
	server, ok := raw.Sub("server")
	if !ok {
		t.Fatal("expected server table")
	}
	if v, _ := Value[string](server, "addr"); v != ":80" {
		t.Errorf("addr = %q", v)
	}
	if _, ok := raw.Sub("missing"); ok {
		t.Error("missing table reported present")
	}
}

func TestWritableDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := WritableDir(dir); err != nil {
		t.Fatalf("WritableDir: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("probe file left behind: %v", entries)
	}
	if FileExists(dir) {
		t.Error("FileExists should be false for directories")
	}
}
