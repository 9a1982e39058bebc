package dlp

import (
	"strings"
	"testing"
)

func TestScannerFlagsSensitiveColumns(t *testing.T) {
	scanner, err := NewScanner(DefaultRules())
	if err != nil {
		t.Fatalf("failed to create scanner: %v", err)
	}

	header := []string{"id", "name", "ssn", "email"}
	rows := [][]string{
		{"1", "Alice", "111-22-3333", "alice@example.com"},
		{"2", "Bob", "444-55-6666", "bob@example.com"},
	}

	suggestions := scanner.ScanColumns(header, rows)
	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggested columns, got %d: %v", len(suggestions), suggestions)
	}
	if suggestions[0].Column != "ssn" || suggestions[1].Column != "email" {
		t.Fatalf("unexpected columns: %v", suggestions)
	}
	if suggestions[0].MatchCount != 2 {
		t.Fatalf("expected 2 ssn matches, got %d", suggestions[0].MatchCount)
	}
}

func TestScanCSVSamplesRows(t *testing.T) {
	scanner, err := NewScanner(DefaultRules())
	if err != nil {
		t.Fatalf("failed to create scanner: %v", err)
	}

	input := "id,phone\n1,555-123-4567\n2,555-987-6543\n3,555-111-2222\n"
	suggestions, err := scanner.ScanCSV(strings.NewReader(input), 2)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if len(suggestions) != 1 || suggestions[0].Column != "phone" {
		t.Fatalf("expected phone column suggestion, got %v", suggestions)
	}
	if suggestions[0].Sampled != 2 {
		t.Fatalf("expected sample limit of 2 rows, got %d", suggestions[0].Sampled)
	}
}

func TestScannerSkipsDisabledRules(t *testing.T) {
	cfg := RulesConfig{Rules: []Rule{
		{Name: "SSN", Type: "ssn", Pattern: `\b\d{3}-\d{2}-\d{4}\b`, Enabled: false},
	}}
	scanner, err := NewScanner(cfg)
	if err != nil {
		t.Fatalf("failed to create scanner: %v", err)
	}

	suggestions := scanner.ScanColumns([]string{"ssn"}, [][]string{{"111-22-3333"}})
	if len(suggestions) != 0 {
		t.Fatalf("disabled rule must not match, got %v", suggestions)
	}
}
