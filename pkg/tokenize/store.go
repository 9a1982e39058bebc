package tokenize

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// MapStore owns all mapping-file I/O. The persisted format is headerless CSV
// with exactly two fields per row: token,original_value.
type MapStore struct {
	path string
	log  logrus.FieldLogger
}

func NewMapStore(path string, log logrus.FieldLogger) *MapStore {
	return &MapStore{path: path, log: log}
}

func (s *MapStore) Path() string {
	return s.path
}

// Load reads the persisted mapping. A missing file is not an error: an empty
// mapping is returned, which is the correct starting state for tokenization.
func (s *MapStore) Load() (*Mapping, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewMapping(), nil
		}
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer f.Close()

	return s.read(f)
}

// LoadStrict reads the persisted mapping and fails with NotFoundError when
// the file does not exist. Detokenization without a mapping is meaningless.
func (s *MapStore) LoadStrict() (*Mapping, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: s.path}
		}
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer f.Close()

	return s.read(f)
}

func (s *MapStore) read(r io.Reader) (*Mapping, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	mapping := NewMapping()
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read mapping file: %w", err)
		}
		if len(row) != 2 {
			s.log.WithFields(logrus.Fields{
				"line":   line,
				"fields": len(row),
			}).Warn("Skipping malformed mapping row")
			continue
		}
		mapping.Insert(row[0], row[1])
	}

	return mapping, nil
}

// Save rewrites the whole mapping file, one entry per row in insertion order.
// Any existing file at the path is overwritten.
func (s *MapStore) Save(mapping *Mapping) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create mapping file: %w", err)
	}

	writer := csv.NewWriter(f)
	for _, entry := range mapping.Entries() {
		if err := writer.Write([]string{entry.Token, entry.Value}); err != nil {
			f.Close()
			return fmt.Errorf("failed to write mapping row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush mapping file: %w", err)
	}

	return f.Close()
}
