package entity

// Answer is the rendered result of one question against a dataset.
// Exactly one of Text, Columns/Rows, or ImageURL is meaningful,
// selected by Kind.
type Answer struct {
	Kind     AnswerKind
	Text     string
	Columns  []string
	Rows     [][]string
	ImageURL string
}

// QueryEvent is published after every answered (or failed) question so
// the history consumer can record it out of the request path.
type QueryEvent struct {
	EventID     string
	Question    string
	Kind        AnswerKind
	Summary     string
	Err         string
	ElapsedMs   int64
	AskedAt     int64
	Fingerprint string
	Answer      Answer
}

// HistoryEntry is one recorded question/answer pair.
type HistoryEntry struct {
	ID          int64
	Question    string
	Kind        AnswerKind
	Summary     string
	Err         string
	ElapsedMs   int64
	AskedAt     int64
	Fingerprint string
	Answer      Answer
}
