package dlp

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"

	"github.com/tokenweave/platform/pkg/common/models"
)

type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

// Scanner inspects tabular data column by column and reports which columns
// look like they hold sensitive values. Results are advisory: tokenization
// still acts only on the caller-supplied column list.
type Scanner struct {
	rules []compiledRule
}

func NewScanner(cfg RulesConfig) (*Scanner, error) {
	var compiled []compiledRule
	for _, rule := range cfg.Rules {
		if !rule.Enabled {
			continue
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledRule{rule: rule, re: re})
	}
	return &Scanner{rules: compiled}, nil
}

// ScanColumns tests every sampled value of every column against the rule set
// and returns one suggestion per column with at least one match.
func (s *Scanner) ScanColumns(header []string, rows [][]string) []models.ColumnSuggestion {
	if s == nil || len(header) == 0 {
		return nil
	}

	matches := make([]int, len(header))
	types := make([]map[string]struct{}, len(header))
	for i := range types {
		types[i] = make(map[string]struct{})
	}

	for _, row := range rows {
		for i := 0; i < len(header) && i < len(row); i++ {
			if row[i] == "" {
				continue
			}
			for _, rule := range s.rules {
				if rule.re.MatchString(row[i]) {
					matches[i]++
					types[i][rule.rule.Type] = struct{}{}
				}
			}
		}
	}

	var suggestions []models.ColumnSuggestion
	for i, name := range header {
		if matches[i] == 0 {
			continue
		}
		ruleTypes := make([]string, 0, len(types[i]))
		for t := range types[i] {
			ruleTypes = append(ruleTypes, t)
		}
		sort.Strings(ruleTypes)
		suggestions = append(suggestions, models.ColumnSuggestion{
			Column:     name,
			RuleTypes:  ruleTypes,
			MatchCount: matches[i],
			Sampled:    len(rows),
		})
	}
	return suggestions
}

// ScanCSV reads the header and up to sampleLimit rows from r, then delegates
// to ScanColumns. A sampleLimit <= 0 scans the whole input.
func (s *Scanner) ScanCSV(r io.Reader, sampleLimit int) ([]models.ColumnSuggestion, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input header: %w", err)
	}

	var rows [][]string
	for sampleLimit <= 0 || len(rows) < sampleLimit {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read input row: %w", err)
		}
		rows = append(rows, row)
	}

	return s.ScanColumns(header, rows), nil
}
