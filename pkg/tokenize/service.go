package tokenize

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Service runs one tokenization or detokenization pass over a delimited
// record stream. The mapping is loaded once at the start of a pass, mutated
// only during tokenization, and saved exactly once after the full pass, so a
// crash mid-stream never corrupts the persisted mapping.
type Service struct {
	store *MapStore
	gen   Generator
	log   logrus.FieldLogger
}

func NewService(store *MapStore, gen Generator, log logrus.FieldLogger) *Service {
	return &Service{store: store, gen: gen, log: log}
}

// Tokenize replaces the values of the configured columns with tokens,
// reusing assignments already present in the mapping. Records stream through
// one at a time; column names and order are preserved.
func (s *Service) Tokenize(input io.Reader, output io.Writer, columns []string) error {
	mapping, err := s.store.Load()
	if err != nil {
		return err
	}

	reader := csv.NewReader(input)
	header, err := reader.Read()
	if err == io.EOF {
		// Empty input: nothing to transform, persisted mapping unchanged.
		return s.store.Save(mapping)
	}
	if err != nil {
		return fmt.Errorf("failed to read input header: %w", err)
	}

	indexes := s.resolveColumns(header, columns)

	writer := csv.NewWriter(output)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	minted := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read input row: %w", err)
		}

		for _, idx := range indexes {
			value := row[idx]
			token, ok := mapping.Token(value)
			if !ok {
				token = s.gen.Generate(value, mapping)
				mapping.Insert(token, value)
				minted++
			}
			row[idx] = token
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"new_tokens":   minted,
		"mapping_size": mapping.Len(),
	}).Info("Tokenization pass complete")

	return s.store.Save(mapping)
}

// Detokenize restores every cell whose value exactly matches a known token.
// It is deliberately column-agnostic: no column list is needed because the
// mapping keys identify tokenized cells regardless of where they appear.
func (s *Service) Detokenize(input io.Reader, output io.Writer) error {
	mapping, err := s.store.LoadStrict()
	if err != nil {
		return err
	}

	reader := csv.NewReader(input)
	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read input header: %w", err)
	}

	writer := csv.NewWriter(output)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	restored := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read input row: %w", err)
		}

		for i, cell := range row {
			if original, ok := mapping.Value(cell); ok {
				row[i] = original
				restored++
			}
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	s.log.WithField("restored_cells", restored).Info("Detokenization pass complete")
	return nil
}

// resolveColumns maps configured column names to header positions. The
// schema is fixed per input source, so a missing column is reported once.
func (s *Service) resolveColumns(header []string, columns []string) []int {
	var indexes []int
	for _, col := range columns {
		found := -1
		for i, name := range header {
			if name == col {
				found = i
				break
			}
		}
		if found == -1 {
			s.log.WithField("column", col).Warn("Column not found in input header")
			continue
		}
		indexes = append(indexes, found)
	}
	return indexes
}
