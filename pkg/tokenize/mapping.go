package tokenize

// Entry is one persisted token association.
type Entry struct {
	Token string
	Value string
}

// Mapping holds the token->value association for one pass, together with a
// secondary value->token index so the "does this value already have a token"
// lookup is constant time, and an insertion-order list so saves are
// deterministic.
type Mapping struct {
	byToken map[string]string
	byValue map[string]string
	order   []string
}

func NewMapping() *Mapping {
	return &Mapping{
		byToken: make(map[string]string),
		byValue: make(map[string]string),
	}
}

// Insert records the pair in both directions. Re-inserting an existing token
// overwrites its value without duplicating the save order.
func (m *Mapping) Insert(token, value string) {
	if _, exists := m.byToken[token]; !exists {
		m.order = append(m.order, token)
	}
	m.byToken[token] = value
	m.byValue[value] = token
}

// Token returns the token already assigned to value, if any.
func (m *Mapping) Token(value string) (string, bool) {
	token, ok := m.byValue[value]
	return token, ok
}

// Value returns the original value behind token, if known.
func (m *Mapping) Value(token string) (string, bool) {
	value, ok := m.byToken[token]
	return value, ok
}

func (m *Mapping) HasToken(token string) bool {
	_, ok := m.byToken[token]
	return ok
}

func (m *Mapping) Len() int {
	return len(m.byToken)
}

// Entries returns all pairs in insertion order.
func (m *Mapping) Entries() []Entry {
	entries := make([]Entry, 0, len(m.order))
	for _, token := range m.order {
		entries = append(entries, Entry{Token: token, Value: m.byToken[token]})
	}
	return entries
}
