package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jvcl/datachat/internal/chat/entity"
)

// loadDirectory scans folder for *.csv files and concatenates every
// successfully parsed file into one dataset. Per-file failures degrade
// that file's contribution to nothing and become diagnostics; only the
// aggregate conditions (missing directory, no input files, no usable
// data) mark the whole report as empty.
//
// Files are appended in lexicographic name order so repeated loads of
// an unchanged folder are row-for-row identical.
func loadDirectory(ctx context.Context, folder string, delimiter rune) (*entity.Dataset, entity.LoadReport) {
	report := entity.LoadReport{Folder: folder, Status: entity.LoadStatusOK}

	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		report.Status = entity.LoadStatusDirectoryNotFound
		report.Diagnostics = append(report.Diagnostics, fmt.Sprintf("folder %s was not found", folder))
		return &entity.Dataset{}, report
	}

	names := discoverCSVFiles(folder)
	if len(names) == 0 {
		report.Status = entity.LoadStatusNoInputFiles
		report.Diagnostics = append(report.Diagnostics, fmt.Sprintf("no CSV files found in folder %s", folder))
		return &entity.Dataset{}, report
	}

	dataset := &entity.Dataset{}
	for _, name := range names {
		columns, rows, src := loadFile(ctx, filepath.Join(folder, name), delimiter)
		report.Files = append(report.Files, src)
		report.Diagnostics = append(report.Diagnostics, src.Diagnostic())

		if src.Outcome != entity.FileOutcomeLoaded {
			continue
		}

		appendRows(dataset, columns, rows)
		report.TotalRows += int64(len(rows))
	}

	if report.TotalRows == 0 {
		report.Status = entity.LoadStatusNoUsableData
		report.Diagnostics = append(report.Diagnostics, "no data could be loaded from the CSV files, or all files were empty or problematic")
		return &entity.Dataset{}, report
	}

	dataset.Fingerprint = fingerprint(dataset)
	report.Diagnostics = append(report.Diagnostics, fmt.Sprintf("all data successfully loaded and combined, total rows: %d", report.TotalRows))

	return dataset, report
}

// discoverCSVFiles lists the immediate children of folder whose name
// ends in .csv. os.ReadDir returns names sorted, which fixes the
// discovery order.
func discoverCSVFiles(folder string) []string {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			names = append(names, entry.Name())
		}
	}

	return names
}

// loadFile parses one CSV file with a warn-and-skip policy: lines whose
// field count differs from the header, or that fail to parse, are
// dropped from this file's contribution and counted as skipped.
func loadFile(ctx context.Context, path string, delimiter rune) ([]string, [][]string, entity.SourceFile) {
	src := entity.SourceFile{Name: filepath.Base(path)}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			src.Outcome = entity.FileOutcomeNotFound
		} else {
			src.Outcome = entity.FileOutcomeParseError
			src.Detail = err.Error()
		}
		return nil, nil, src
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			src.Outcome = entity.FileOutcomeEmpty
		} else {
			src.Outcome = entity.FileOutcomeParseError
			src.Detail = err.Error()
		}
		return nil, nil, src
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			src.Skipped++
			slog.WarnContext(ctx, "skipping malformed csv line", "file", src.Name, "error", err)
			continue
		}
		if len(record) != len(header) {
			src.Skipped++
			slog.WarnContext(ctx, "skipping csv line with unexpected field count",
				"file", src.Name, "expected", len(header), "got", len(record))
			continue
		}

		row := make([]string, len(record))
		copy(row, record)
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		src.Outcome = entity.FileOutcomeEmpty
		return nil, nil, src
	}

	src.Outcome = entity.FileOutcomeLoaded
	src.Rows = int64(len(rows))
	src.Columns = len(header)

	return header, rows, src
}

// appendRows merges one file's rows into the combined dataset using an
// outer join on column names: the combined column set is the union in
// first-seen order and missing values become empty strings.
func appendRows(dataset *entity.Dataset, columns []string, rows [][]string) {
	position := make(map[string]int, len(dataset.Columns))
	for i, name := range dataset.Columns {
		position[name] = i
	}

	for _, name := range columns {
		if _, ok := position[name]; ok {
			continue
		}
		position[name] = len(dataset.Columns)
		dataset.Columns = append(dataset.Columns, name)

		// Backfill existing rows for the new column.
		for i := range dataset.Rows {
			dataset.Rows[i] = append(dataset.Rows[i], "")
		}
	}

	for _, row := range rows {
		combined := make([]string, len(dataset.Columns))
		for i, name := range columns {
			combined[position[name]] = row[i]
		}
		dataset.Rows = append(dataset.Rows, combined)
	}
}

// fingerprint hashes the dataset content so an unchanged dataset can be
// recognized across reloads (used by the answer cache).
func fingerprint(dataset *entity.Dataset) string {
	h := sha256.New()
	for _, name := range dataset.Columns {
		h.Write([]byte(name))
		h.Write([]byte{0})
	}
	for _, row := range dataset.Rows {
		for _, value := range row {
			h.Write([]byte(value))
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}

	return hex.EncodeToString(h.Sum(nil))
}
