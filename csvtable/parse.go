package csvtable

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/domonda/go-types/charset"
)

// ParseDetectFormat parses CSV data detecting its encoding,
// line endings and separator.
// If config is nil, NewDefaultFormatDetectionConfig() is used.
//
// A first line "sep=X" declares the separator and is not returned as row.
// Otherwise the most frequent of comma, semicolon and tab is used,
// comma if there is no single most frequent one.
func ParseDetectFormat(data []byte, config *FormatDetectionConfig) (rows [][]string, format *Format, err error) {
	if config == nil {
		config = NewDefaultFormatDetectionConfig()
	}

	format = new(Format)

	encodings := make([]charset.Encoding, 0, len(config.Encodings))
	for _, name := range config.Encodings {
		enc, err := charset.GetEncoding(name)
		if err != nil {
			return nil, nil, err
		}
		encodings = append(encodings, enc)
	}
	data, format.Encoding, err = charset.AutoDecode(data, encodings, config.EncodingTests)
	if err != nil {
		return nil, nil, err
	}
	if format.Encoding == "" {
		format.Encoding = "UTF-8"
	}
	data = sanitizeUTF8(data)

	// If there are \r\n line endings
	// then take those because that's the standard
	if bytes.Contains(data, []byte{'\r', '\n'}) {
		format.Newline = "\r\n"
	} else {
		format.Newline = "\n"
	}

	data, format.Separator = cutSepHeaderLine(data)
	if format.Separator == "" {
		format.Separator = detectSeparator(data)
	}

	rows, err = readRecords(data, format.Separator)
	return rows, format, err
}

// ParseWithFormat parses CSV data using an explicitly specified format.
// A "sep=X" header line must declare the same separator as format.
func ParseWithFormat(data []byte, format *Format) (rows [][]string, err error) {
	err = format.Validate()
	if err != nil {
		return nil, err
	}

	if format.Encoding == "UTF-8" {
		data = charset.TrimBOM(data, charset.BOMUTF8)
	} else {
		enc, err := charset.GetEncoding(format.Encoding)
		if err != nil {
			return nil, err
		}
		data, err = enc.Decode(data)
		if err != nil {
			return nil, err
		}
	}
	data = sanitizeUTF8(data)

	data, headerSep := cutSepHeaderLine(data)
	if headerSep != "" && headerSep != format.Separator {
		return nil, fmt.Errorf("separator '%s' in header line is different from format.Separator '%s'", headerSep, format.Separator)
	}

	return readRecords(data, format.Separator)
}

// cutSepHeaderLine removes a first line like "sep=X" or "SEP=X"
// (possibly quoted) and returns the declared separator.
// This format is used by Microsoft Excel to declare the separator.
func cutSepHeaderLine(data []byte) (rest []byte, sep string) {
	line, rest, _ := bytes.Cut(data, []byte{'\n'})
	line = bytes.TrimRight(line, "\r")
	if len(line) >= 2 && line[0] == '"' && line[len(line)-1] == '"' {
		line = line[1 : len(line)-1]
	}
	if len(line) != 5 {
		return data, ""
	}
	if !bytes.HasPrefix(line, []byte("sep=")) && !bytes.HasPrefix(line, []byte("SEP=")) {
		return data, ""
	}
	return rest, string(line[4:5])
}

func detectSeparator(data []byte) string {
	var commas, semicolons, tabs int
	for line := range bytes.Lines(data) {
		commas += bytes.Count(line, []byte{','})
		semicolons += bytes.Count(line, []byte{';'})
		tabs += bytes.Count(line, []byte{'\t'})
	}
	switch {
	case semicolons > commas && semicolons > tabs:
		return ";"
	case tabs > commas && tabs > semicolons:
		return "\t"
	}
	return ","
}

func readRecords(data []byte, separator string) (rows [][]string, err error) {
	if len(separator) != 1 {
		return nil, fmt.Errorf("invalid CSV separator %q", separator)
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = rune(separator[0])
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		for i := range record {
			record[i] = strings.ReplaceAll(record[i], "\r\n", "\n")
		}
		rows = append(rows, record)
	}
}

// RemoveEmptyRows removes rows where all fields are empty
// or contain only whitespace.
func RemoveEmptyRows(rows [][]string) [][]string {
	filtered := rows[:0]
	for _, row := range rows {
		for _, field := range row {
			if strings.TrimSpace(field) != "" {
				filtered = append(filtered, row)
				break
			}
		}
	}
	return filtered
}

func sanitizeUTF8(str []byte) []byte {
	return bytes.Map(
		func(r rune) rune {
			switch r {
			//   is No-Break Space (NBSP)
			case '�', ' ':
				return ' '
			default:
				return r
			}
		},
		str,
	)
}
