package tokenize

import "fmt"

// NotFoundError reports a required file that does not exist. Tokenization
// treats a missing mapping file as an empty mapping; detokenization and the
// input file itself surface this error instead.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("required file not found: %s", e.Path)
}

// ConfigurationError reports an unknown token strategy name. It is returned
// before any file is touched.
type ConfigurationError struct {
	Strategy string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unknown token strategy: %q", e.Strategy)
}
