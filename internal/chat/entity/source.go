package entity

import "fmt"

// SourceFile records the outcome of loading one CSV file during a scan.
type SourceFile struct {
	Name    string
	Outcome FileOutcome
	Rows    int64
	Columns int
	Skipped int64
	Detail  string
}

// Diagnostic returns the human-readable message for this file's outcome.
func (f SourceFile) Diagnostic() string {
	switch f.Outcome {
	case FileOutcomeNotFound:
		return fmt.Sprintf("file %s was not found", f.Name)
	case FileOutcomeEmpty:
		return fmt.Sprintf("file %s is empty or contains no data rows", f.Name)
	case FileOutcomeParseError:
		return fmt.Sprintf("error loading file %s: %s", f.Name, f.Detail)
	default:
		if f.Skipped > 0 {
			return fmt.Sprintf("file %s loaded with %d malformed line(s) skipped", f.Name, f.Skipped)
		}
		return fmt.Sprintf("file %s loaded with %d row(s)", f.Name, f.Rows)
	}
}

// LoadReport describes one full pass over a data folder.
type LoadReport struct {
	Folder      string
	Status      LoadStatus
	Files       []SourceFile
	TotalRows   int64
	Diagnostics []string
	LoadedAt    int64
}
