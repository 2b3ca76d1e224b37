package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/edu-registry-api/pkg/errors"
)

func TestNewEncoderUnsupported(t *testing.T) {
	_, err := NewEncoder("pdf")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnsupportedFormat))
}

func TestNewDecoderXLSAlias(t *testing.T) {
	dec, err := NewDecoder("XLS")
	require.NoError(t, err)
	assert.IsType(t, &xlsxCodec{}, dec)
}

func TestCSVRoundTrip(t *testing.T) {
	columns := []string{"id", "code", "name"}
	rows := []map[string]string{
		{"id": "1", "code": "C-01", "name": "Mathematics"},
		{"id": "2", "code": "C-02", "name": "Physics"},
	}

	enc, err := NewEncoder("csv")
	require.NoError(t, err)
	payload, ext, err := enc.Encode(rows, columns)
	require.NoError(t, err)
	assert.Equal(t, "csv", ext)

	dec, err := NewDecoder("csv")
	require.NoError(t, err)
	decoded, err := dec.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, rows, decoded)
}

func TestCSVEncodeMissingFieldRendersEmpty(t *testing.T) {
	enc := &csvCodec{}
	payload, _, err := enc.Encode([]map[string]string{{"id": "1"}}, []string{"id", "name"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,name", lines[0])
	assert.Equal(t, "1,", lines[1])
}

func TestCSVDecodeEmptyPayload(t *testing.T) {
	dec := &csvCodec{}
	rows, err := dec.Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCSVDecodeShortRow(t *testing.T) {
	dec := &csvCodec{}
	rows, err := dec.Decode([]byte("id,name,phone\n1,Alice\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]string{"id": "1", "name": "Alice", "phone": ""}, rows[0])
}

func TestXLSXRoundTrip(t *testing.T) {
	columns := []string{"id", "code", "fullname", "class_id"}
	rows := []map[string]string{
		{"id": "1", "code": "S-01", "fullname": "Alice", "class_id": "3"},
		{"id": "2", "code": "S-02", "fullname": "Bob", "class_id": ""},
	}

	enc, err := NewEncoder("xlsx")
	require.NoError(t, err)
	payload, ext, err := enc.Encode(rows, columns)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", ext)

	dec, err := NewDecoder("xlsx")
	require.NoError(t, err)
	decoded, err := dec.Decode(payload)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, rows[0], decoded[0])
	// Trailing empty cells may be trimmed by the reader; decode fills them in.
	assert.Equal(t, rows[1], decoded[1])
}

func TestXLSXDecodeNumericCellsAsStrings(t *testing.T) {
	enc := &xlsxCodec{}
	payload, _, err := enc.Encode([]map[string]string{{"id": "42"}}, []string{"id"})
	require.NoError(t, err)

	dec := &xlsxCodec{}
	rows, err := dec.Decode(payload)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "42", rows[0]["id"])
}

func TestEncodeRequiresColumns(t *testing.T) {
	for _, kind := range []string{"csv", "xlsx"} {
		enc, err := NewEncoder(kind)
		require.NoError(t, err)
		_, _, err = enc.Encode(nil, nil)
		assert.Error(t, err, kind)
	}
}
