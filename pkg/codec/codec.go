// Package codec implements the pluggable tabular formats used by the
// import/export endpoints. Encoders and decoders are symmetric: a file
// produced by an Encoder round-trips through the matching Decoder.
package codec

import (
	"fmt"
	"strings"

	appErrors "github.com/noah-isme/edu-registry-api/pkg/errors"
)

// Encoder renders field-maps into a tabular payload.
type Encoder interface {
	// Encode returns the payload bytes and the file extension for the format.
	// Fields absent from a row render as empty cells.
	Encode(rows []map[string]string, columns []string) ([]byte, string, error)
}

// Decoder parses a tabular payload into one field-map per data row, keyed by
// the header row.
type Decoder interface {
	Decode(data []byte) ([]map[string]string, error)
}

// NewEncoder selects an encoder by type token. Unrecognized tokens fail here,
// before any data is touched.
func NewEncoder(kind string) (Encoder, error) {
	switch strings.ToLower(kind) {
	case "csv":
		return &csvCodec{}, nil
	case "xlsx":
		return &xlsxCodec{}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export type: %s", kind))
	}
}

// NewDecoder selects a decoder by file extension. Legacy "xls" uploads are
// routed through the spreadsheet decoder.
func NewDecoder(kind string) (Decoder, error) {
	switch strings.ToLower(kind) {
	case "csv":
		return &csvCodec{}, nil
	case "xlsx", "xls":
		return &xlsxCodec{}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported file extension: %s", kind))
	}
}
