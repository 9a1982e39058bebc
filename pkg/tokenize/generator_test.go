package tokenize

import (
	"errors"
	"strconv"
	"testing"
)

func TestSequentialGeneratorCountsUpward(t *testing.T) {
	gen, err := NewGenerator(StrategySequential)
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}

	m := NewMapping()
	for i, value := range []string{"111-22-3333", "444-55-6666", "777-88-9999"} {
		token := gen.Generate(value, m)
		want := strconv.Itoa(i + 1)
		if token != want {
			t.Fatalf("distinct value %d: expected token %q, got %q", i+1, want, token)
		}
		m.Insert(token, value)
	}
}

func TestSequentialGeneratorSkipsTakenTokens(t *testing.T) {
	gen, err := NewGenerator(StrategySequential)
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}

	m := NewMapping()
	m.Insert("1", "a")
	m.Insert("3", "c")

	if token := gen.Generate("b", m); token != "2" {
		t.Fatalf("expected gap token 2, got %q", token)
	}
	m.Insert("2", "b")

	if token := gen.Generate("d", m); token != "4" {
		t.Fatalf("expected token 4, got %q", token)
	}
}

func TestUUIDGeneratorNeverCollides(t *testing.T) {
	gen, err := NewGenerator(StrategyUUID)
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}

	m := NewMapping()
	m.Insert("pre-existing-token", "already here")

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		token := gen.Generate("value", m)
		if m.HasToken(token) {
			t.Fatalf("generated token %q collides with the mapping", token)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("generated token %q twice", token)
		}
		seen[token] = struct{}{}
		m.Insert(token, "value-"+strconv.Itoa(i))
	}
}

func TestNewGeneratorRejectsUnknownStrategy(t *testing.T) {
	_, err := NewGenerator(Strategy("fibonacci"))
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %T: %v", err, err)
	}
	if cfgErr.Strategy != "fibonacci" {
		t.Fatalf("expected strategy name in error, got %q", cfgErr.Strategy)
	}
}
