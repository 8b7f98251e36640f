package usecase

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jvcl/datachat/internal/chat/entity"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadDirectoryConcatenatesInDiscoveryOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "name;age\ncarol;31\ndave;44\n")
	writeFile(t, dir, "a.csv", "name;age\nalice;30\nbob;25\n")

	dataset, report := loadDirectory(context.Background(), dir, ';')

	if report.Status != entity.LoadStatusOK {
		t.Fatalf("status = %s, want %s", report.Status, entity.LoadStatusOK)
	}
	if report.TotalRows != 4 {
		t.Fatalf("total rows = %d, want 4", report.TotalRows)
	}
	if !reflect.DeepEqual(dataset.Columns, []string{"name", "age"}) {
		t.Fatalf("unexpected columns: %#v", dataset.Columns)
	}

	want := [][]string{
		{"alice", "30"},
		{"bob", "25"},
		{"carol", "31"},
		{"dave", "44"},
	}
	if !reflect.DeepEqual(dataset.Rows, want) {
		t.Fatalf("unexpected rows: %#v", dataset.Rows)
	}
}

func TestLoadDirectorySkipsEmptyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "data.csv", "name;age\nalice;30\n")
	writeFile(t, dir, "header_only.csv", "name;age\n")
	writeFile(t, dir, "truly_empty.csv", "")

	dataset, report := loadDirectory(context.Background(), dir, ';')

	if dataset.RowCount() != 1 {
		t.Fatalf("row count = %d, want 1", dataset.RowCount())
	}

	outcomes := map[string]entity.FileOutcome{}
	for _, f := range report.Files {
		outcomes[f.Name] = f.Outcome
	}
	if outcomes["data.csv"] != entity.FileOutcomeLoaded {
		t.Fatalf("data.csv outcome = %s, want %s", outcomes["data.csv"], entity.FileOutcomeLoaded)
	}
	if outcomes["header_only.csv"] != entity.FileOutcomeEmpty {
		t.Fatalf("header_only.csv outcome = %s, want %s", outcomes["header_only.csv"], entity.FileOutcomeEmpty)
	}
	if outcomes["truly_empty.csv"] != entity.FileOutcomeEmpty {
		t.Fatalf("truly_empty.csv outcome = %s, want %s", outcomes["truly_empty.csv"], entity.FileOutcomeEmpty)
	}

	found := false
	for _, diag := range report.Diagnostics {
		if diag == "file header_only.csv is empty or contains no data rows" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected empty file diagnostic, got %#v", report.Diagnostics)
	}
}

func TestLoadDirectoryDropsMalformedLines(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "good.csv", "name;age\nalice;30\n")
	writeFile(t, dir, "partial.csv", "name;age\nbob;25\nthis-line-has-one-field\ncarol;31\n")

	dataset, report := loadDirectory(context.Background(), dir, ';')

	if dataset.RowCount() != 3 {
		t.Fatalf("row count = %d, want 3", dataset.RowCount())
	}

	for _, f := range report.Files {
		if f.Name != "partial.csv" {
			continue
		}
		if f.Outcome != entity.FileOutcomeLoaded {
			t.Fatalf("partial.csv outcome = %s, want %s", f.Outcome, entity.FileOutcomeLoaded)
		}
		if f.Skipped != 1 {
			t.Fatalf("partial.csv skipped = %d, want 1", f.Skipped)
		}
		if f.Rows != 2 {
			t.Fatalf("partial.csv rows = %d, want 2", f.Rows)
		}
	}
}

func TestLoadDirectoryMissingFolder(t *testing.T) {
	t.Parallel()

	dataset, report := loadDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"), ';')

	if !dataset.Empty() {
		t.Fatalf("expected empty dataset")
	}
	if report.Status != entity.LoadStatusDirectoryNotFound {
		t.Fatalf("status = %s, want %s", report.Status, entity.LoadStatusDirectoryNotFound)
	}
	if len(report.Diagnostics) != 1 {
		t.Fatalf("expected single diagnostic, got %#v", report.Diagnostics)
	}
}

func TestLoadDirectoryNoCSVFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "not a csv\n")

	dataset, report := loadDirectory(context.Background(), dir, ';')

	if !dataset.Empty() {
		t.Fatalf("expected empty dataset")
	}
	if report.Status != entity.LoadStatusNoInputFiles {
		t.Fatalf("status = %s, want %s", report.Status, entity.LoadStatusNoInputFiles)
	}
}

func TestLoadDirectoryNoUsableData(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "empty1.csv", "name;age\n")
	writeFile(t, dir, "empty2.csv", "")

	dataset, report := loadDirectory(context.Background(), dir, ';')

	if !dataset.Empty() {
		t.Fatalf("expected empty dataset")
	}
	if report.Status != entity.LoadStatusNoUsableData {
		t.Fatalf("status = %s, want %s", report.Status, entity.LoadStatusNoUsableData)
	}
}

func TestLoadDirectoryIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "name;age\nalice;30\nbob;25\n")
	writeFile(t, dir, "b.csv", "name;age\ncarol;31\n")

	first, _ := loadDirectory(context.Background(), dir, ';')
	second, _ := loadDirectory(context.Background(), dir, ';')

	if !reflect.DeepEqual(first.Rows, second.Rows) {
		t.Fatalf("expected identical rows across loads")
	}
	if first.Fingerprint == "" || first.Fingerprint != second.Fingerprint {
		t.Fatalf("expected matching fingerprints, got %q and %q", first.Fingerprint, second.Fingerprint)
	}
}

func TestLoadDirectoryOuterJoinsMismatchedColumns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "name;age\nalice;30\n")
	writeFile(t, dir, "b.csv", "name;city\nbob;recife\n")

	dataset, report := loadDirectory(context.Background(), dir, ';')

	if report.Status != entity.LoadStatusOK {
		t.Fatalf("status = %s, want %s", report.Status, entity.LoadStatusOK)
	}
	if !reflect.DeepEqual(dataset.Columns, []string{"name", "age", "city"}) {
		t.Fatalf("unexpected columns: %#v", dataset.Columns)
	}

	want := [][]string{
		{"alice", "30", ""},
		{"bob", "", "recife"},
	}
	if !reflect.DeepEqual(dataset.Rows, want) {
		t.Fatalf("unexpected rows: %#v", dataset.Rows)
	}
}

func TestLoadDirectoryCustomDelimiter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "comma.csv", "name,age\nalice,30\n")

	dataset, report := loadDirectory(context.Background(), dir, ',')

	if report.Status != entity.LoadStatusOK {
		t.Fatalf("status = %s, want %s", report.Status, entity.LoadStatusOK)
	}
	if !reflect.DeepEqual(dataset.Columns, []string{"name", "age"}) {
		t.Fatalf("unexpected columns: %#v", dataset.Columns)
	}
}
