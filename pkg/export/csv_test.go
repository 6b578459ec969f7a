package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, Table{
		Headers: []string{"name", "date"},
		Rows:    [][]string{{"立春", "2008-02-04"}, {"with,comma", "x"}},
	}, CSVOptions{})

	require.NoError(t, err)
	assert.Equal(t, "name,date\n立春,2008-02-04\n\"with,comma\",x\n", buf.String())
}

func TestWriteCSVWithBOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Table{Headers: []string{"name"}}, CSVOptions{BOM: true}))

	assert.Equal(t, "\xEF\xBB\xBFname\n", buf.String())
}

func TestWriteCSVRejectsBadTables(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteCSV(&buf, Table{}, CSVOptions{}))
	assert.Error(t, WriteCSV(&buf, Table{Headers: []string{"a", "b"}, Rows: [][]string{{"only"}}}, CSVOptions{}))
}
