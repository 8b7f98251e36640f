package entity

// FileOutcome is the per-file result of one directory load pass.
type FileOutcome string

const (
	FileOutcomeLoaded     FileOutcome = "LOADED"
	FileOutcomeEmpty      FileOutcome = "EMPTY"
	FileOutcomeNotFound   FileOutcome = "NOT_FOUND"
	FileOutcomeParseError FileOutcome = "PARSE_ERROR"
)

// LoadStatus is the aggregate outcome of a directory load.
type LoadStatus string

const (
	LoadStatusOK                LoadStatus = "OK"
	LoadStatusDirectoryNotFound LoadStatus = "DIRECTORY_NOT_FOUND"
	LoadStatusNoInputFiles      LoadStatus = "NO_INPUT_FILES"
	LoadStatusNoUsableData      LoadStatus = "NO_USABLE_DATA"
)

// AnswerKind classifies what the query engine returned.
type AnswerKind string

const (
	AnswerKindText  AnswerKind = "TEXT"
	AnswerKindTable AnswerKind = "TABLE"
	AnswerKindImage AnswerKind = "IMAGE"
)
