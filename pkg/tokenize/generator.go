package tokenize

import (
	"strconv"

	"github.com/google/uuid"
)

type Strategy string

const (
	StrategyUUID       Strategy = "uuid"
	StrategySequential Strategy = "sequential"
)

// TokenSet is the minimal view a generator needs: membership of candidate
// tokens. Both the in-memory Mapping and the SQL vault satisfy it.
type TokenSet interface {
	HasToken(token string) bool
}

// Generator mints a token that is not yet present in taken. Callers look up
// existing assignments first and insert the returned pair themselves, so
// strategies stay stateless.
type Generator interface {
	Generate(value string, taken TokenSet) string
}

func NewGenerator(strategy Strategy) (Generator, error) {
	switch strategy {
	case StrategyUUID:
		return uuidGenerator{}, nil
	case StrategySequential:
		return sequentialGenerator{}, nil
	default:
		return nil, &ConfigurationError{Strategy: string(strategy)}
	}
}

type uuidGenerator struct{}

func (uuidGenerator) Generate(_ string, taken TokenSet) string {
	token := uuid.New().String()
	for taken.HasToken(token) {
		token = uuid.New().String()
	}
	return token
}

type sequentialGenerator struct{}

// Generate probes upward from 1 and returns the first integer whose string
// form is unused. Linear in the worst case, bounded by distinct-value count.
func (sequentialGenerator) Generate(_ string, taken TokenSet) string {
	for n := 1; ; n++ {
		candidate := strconv.Itoa(n)
		if !taken.HasToken(candidate) {
			return candidate
		}
	}
}
