package corpus

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/pkg/errors"
)

// CSVSource loads paper records from a CSV file with Title and Link columns.
// Export pipelines disagree on header casing and some prepend a UTF-8 BOM,
// so both are tolerated. Records keep file order: the analysis service
// assigns ids 1-based in this order.
type CSVSource struct {
	path   string
	logger *zap.Logger
}

// NewCSVSource creates a corpus source for the given file path
func NewCSVSource(path string, logger *zap.Logger) *CSVSource {
	return &CSVSource{
		path:   path,
		logger: logger,
	}
}

// Load reads every usable record from the file. Records with a blank title
// are skipped. An unreadable file or a file with zero usable records is a
// configuration error.
func (s *CSVSource) Load(ctx context.Context) ([]ports.PaperRecord, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, errors.ErrNoSourceData(s.path).WithCause(err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.ErrNoSourceData(s.path).WithCause(err)
	}
	titleCol, linkCol := resolveColumns(header)

	var records []ports.PaperRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewConfigurationError("malformed corpus file").
				WithCode("MALFORMED_CORPUS").
				WithCause(err)
		}

		title := cell(row, titleCol)
		if title == "" {
			continue
		}
		records = append(records, ports.PaperRecord{
			Title: title,
			Link:  cell(row, linkCol),
		})
	}

	if len(records) == 0 {
		return nil, errors.ErrNoSourceData(s.path)
	}

	s.logger.Info("Corpus loaded",
		zap.String("path", s.path),
		zap.Int("papers", len(records)),
	)

	return records, nil
}

// resolveColumns finds the Title and Link columns by case-insensitive header
// match, falling back to the first two columns when the headers are absent
func resolveColumns(header []string) (titleCol, linkCol int) {
	titleCol, linkCol = 0, 1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(stripBOM(name))) {
		case "title":
			titleCol = i
		case "link":
			linkCol = i
		}
	}
	return titleCol, linkCol
}

// cell returns the trimmed value at index, or empty when the row is short
func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

// stripBOM drops a UTF-8 byte order mark from the start of the first header
// cell
func stripBOM(s string) string {
	return strings.TrimPrefix(s, "﻿")
}
