package tokenize

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const patientCSV = "id,name,ssn\n" +
	"1,Alice,111-22-3333\n" +
	"2,Bob,444-55-6666\n" +
	"3,Alice,777-88-9999\n"

func newTestService(t *testing.T, strategy Strategy) (*Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token_map.csv")
	gen, err := NewGenerator(strategy)
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}
	return NewService(NewMapStore(path, quietLogger()), gen, quietLogger()), path
}

func TestTokenizeSequentialAssignsRowTokens(t *testing.T) {
	svc, mapPath := newTestService(t, StrategySequential)

	var out strings.Builder
	if err := svc.Tokenize(strings.NewReader(patientCSV), &out, []string{"ssn"}); err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}

	want := "id,name,ssn\n1,Alice,1\n2,Bob,2\n3,Alice,3\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", out.String(), want)
	}

	saved, err := os.ReadFile(mapPath)
	if err != nil {
		t.Fatalf("failed to read mapping file: %v", err)
	}
	wantMap := "1,111-22-3333\n2,444-55-6666\n3,777-88-9999\n"
	if string(saved) != wantMap {
		t.Fatalf("unexpected mapping file:\n%s\nwant:\n%s", saved, wantMap)
	}
}

func TestTokenizeReusesTokensForRepeatedValues(t *testing.T) {
	svc, _ := newTestService(t, StrategyUUID)

	input := "dept,owner\nbilling,carol\nshipping,carol\nbilling,dave\n"
	var out strings.Builder
	if err := svc.Tokenize(strings.NewReader(input), &out, []string{"owner"}); err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(out.String())).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if rows[1][1] != rows[2][1] {
		t.Fatalf("repeated value received different tokens: %q vs %q", rows[1][1], rows[2][1])
	}
	if rows[1][1] == rows[3][1] {
		t.Fatal("distinct values received the same token")
	}
}

func TestTokenizeReusesMappingAcrossPasses(t *testing.T) {
	svc, _ := newTestService(t, StrategyUUID)

	input := "id,ssn\n1,111-22-3333\n"
	var first, second strings.Builder
	if err := svc.Tokenize(strings.NewReader(input), &first, []string{"ssn"}); err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	if err := svc.Tokenize(strings.NewReader(input), &second, []string{"ssn"}); err != nil {
		t.Fatalf("second pass failed: %v", err)
	}

	if first.String() != second.String() {
		t.Fatalf("token assignment changed between passes:\n%s\nvs\n%s", first.String(), second.String())
	}
}

func TestDetokenizeRoundTrip(t *testing.T) {
	svc, _ := newTestService(t, StrategyUUID)

	var tokenized strings.Builder
	if err := svc.Tokenize(strings.NewReader(patientCSV), &tokenized, []string{"ssn", "name"}); err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	if tokenized.String() == patientCSV {
		t.Fatal("tokenized output should differ from input")
	}

	var restored strings.Builder
	if err := svc.Detokenize(strings.NewReader(tokenized.String()), &restored); err != nil {
		t.Fatalf("detokenize failed: %v", err)
	}
	if restored.String() != patientCSV {
		t.Fatalf("round trip mismatch:\n%s\nwant:\n%s", restored.String(), patientCSV)
	}
}

func TestDetokenizeRestoresSequentialColumn(t *testing.T) {
	svc, _ := newTestService(t, StrategySequential)

	var tokenized strings.Builder
	if err := svc.Tokenize(strings.NewReader(patientCSV), &tokenized, []string{"ssn"}); err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}

	var restored strings.Builder
	if err := svc.Detokenize(strings.NewReader(tokenized.String()), &restored); err != nil {
		t.Fatalf("detokenize failed: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(restored.String())).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	wantSSNs := []string{"111-22-3333", "444-55-6666", "777-88-9999"}
	for i, want := range wantSSNs {
		if rows[i+1][2] != want {
			t.Fatalf("row %d: expected ssn %q, got %q", i+1, want, rows[i+1][2])
		}
	}
}

func TestTokenizeWarnsOnMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token_map.csv")
	gen, err := NewGenerator(StrategyUUID)
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}
	log, hook := test.NewNullLogger()
	svc := NewService(NewMapStore(path, log), gen, log)

	var out strings.Builder
	if err := svc.Tokenize(strings.NewReader(patientCSV), &out, []string{"phone"}); err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}

	if out.String() != patientCSV {
		t.Fatal("rows must pass through unchanged when the column is absent")
	}

	warned := false
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Data["column"] == "phone" {
			warned = true
		}
	}
	if !warned {
		t.Fatal("expected a warning for the missing column")
	}
}

func TestDetokenizeRequiresMappingFile(t *testing.T) {
	svc, _ := newTestService(t, StrategyUUID)

	var out strings.Builder
	err := svc.Detokenize(strings.NewReader(patientCSV), &out)
	if err == nil {
		t.Fatal("expected detokenize to fail without a mapping file")
	}
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}
