package session

// Trimmer bounds conversation history retention.
type Trimmer interface {
	Trim(history []Entry) []Entry
}

// KeepLastN keeps the last N history entries, rounded down to a whole number
// of user/assistant pairs so a turn is never half-retained. When N <= 0 the
// history is dropped entirely.
type KeepLastN struct {
	N int
}

var _ Trimmer = KeepLastN{}

func (t KeepLastN) Trim(history []Entry) []Entry {
	if t.N <= 0 {
		return nil
	}
	n := t.N - t.N%2
	if n == 0 {
		n = 2
	}
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
