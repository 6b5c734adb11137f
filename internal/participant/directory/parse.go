package directory

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"peppolcheck/internal/participant/identifier"
	"peppolcheck/pkg/platform/sentinel"
)

// Snapshot formats.
const (
	FormatCSV = "csv"
	FormatXML = "xml"
)

// ParticipantIDColumn is the CSV header naming the scheme-qualified identifier.
const ParticipantIDColumn = "Participant ID"

// Parser turns a snapshot stream into records. Rows that do not carry a
// scheme-qualified identifier are skipped, not reported.
type Parser interface {
	Parse(r io.Reader) ([]Record, error)
}

// ParserFor returns the parser for a snapshot format.
func ParserFor(format string) (Parser, error) {
	switch strings.ToLower(format) {
	case "", FormatCSV:
		return CSVParser{}, nil
	case FormatXML:
		return XMLParser{}, nil
	default:
		return nil, fmt.Errorf("unknown directory format %q", format)
	}
}

// CSVParser reads the participants export: a header row with a "Participant ID"
// column and one identifier per row. Comma and semicolon delimiters are accepted.
type CSVParser struct{}

// Parse implements Parser.
func (CSVParser) Parse(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true
	reader.Comma = detectDelimiter(head)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read csv header: %v", sentinel.ErrMalformed, err)
	}
	col := -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if strings.EqualFold(name, ParticipantIDColumn) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w: csv header has no %q column", sentinel.ErrMalformed, ParticipantIDColumn)
	}

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if col >= len(row) {
			continue
		}
		scheme, id, err := identifier.ParseDirectoryID(row[col])
		if err != nil {
			continue
		}
		records = append(records, Record{Scheme: scheme, ParticipantID: id})
	}
	return records, nil
}

func detectDelimiter(head []byte) rune {
	line, _, _ := bytes.Cut(head, []byte("\n"))
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

// XMLParser reads the business-card export:
//
//	<root><businesscard><participant scheme="iso6523-actorid-upis" value="9925:BE0418159080"/>...</businesscard></root>
type XMLParser struct{}

// Parse implements Parser.
func (XMLParser) Parse(r io.Reader) ([]Record, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%w: parse business cards: %v", sentinel.ErrMalformed, err)
	}

	var records []Record
	for _, p := range doc.FindElements("//businesscard/participant") {
		if !strings.EqualFold(p.SelectAttrValue("scheme", ""), identifier.DirectoryScheme) {
			continue
		}
		scheme, id, ok := strings.Cut(strings.TrimSpace(p.SelectAttrValue("value", "")), ":")
		if !ok || scheme == "" || id == "" {
			continue
		}
		records = append(records, Record{Scheme: scheme, ParticipantID: id})
	}
	return records, nil
}
