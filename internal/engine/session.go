package engine

// Session tracks which question fingerprints have been served during one
// assessment session. Owned by exactly one Coordinator; discarded when the
// session ends. Not safe for concurrent use and never shared.
type Session struct {
	used map[string]bool
}

func NewSession() *Session {
	return &Session{used: make(map[string]bool)}
}

func (s *Session) Register(id string) {
	s.used[id] = true
}

func (s *Session) Contains(id string) bool {
	return s.used[id]
}

// Len is the number of distinct questions served so far.
func (s *Session) Len() int {
	return len(s.used)
}
