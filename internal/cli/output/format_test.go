package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idRow struct {
	Field string `json:"field" yaml:"field"`
	ID    int    `json:"id" yaml:"id"`
}

type idRows []idRow

func (r idRows) Headers() []string { return []string{"FIELD", "ID"} }

func (r idRows) Rows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, row := range r {
		rows = append(rows, []string{row.Field, "x"})
	}
	return rows
}

func (r idRows) RenderText() string { return "uid=1000\n" }

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		def     Format
		want    Format
		wantErr bool
	}{
		{name: "text", input: "text", want: FormatText},
		{name: "empty uses default", input: "", def: FormatTable, want: FormatTable},
		{name: "table", input: "table", want: FormatTable},
		{name: "JSON uppercase", input: "JSON", want: FormatJSON},
		{name: "yml alias", input: "yml", want: FormatYAML},
		{name: "whitespace trimmed", input: "  json  ", want: FormatJSON},
		{name: "invalid format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input, tt.def)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_Structured(t *testing.T) {
	assert.True(t, FormatJSON.Structured())
	assert.True(t, FormatYAML.Structured())
	assert.False(t, FormatTable.Structured())
	assert.False(t, FormatText.Structured())
}

func TestPrinter_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatText).Print(idRows{}))
	assert.Equal(t, "uid=1000\n", buf.String())

	err := NewPrinter(&buf, FormatText).Print(struct{}{})
	assert.Error(t, err)
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatJSON).Print(idRows{{Field: "uid", ID: 1000}}))
	assert.Contains(t, buf.String(), `"field": "uid"`)
	assert.Contains(t, buf.String(), `"id": 1000`)
}

func TestPrinter_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatYAML).Print(idRows{{Field: "gid", ID: 27}}))
	assert.Contains(t, buf.String(), "field: gid")
	assert.Contains(t, buf.String(), "id: 27")
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable).Print(idRows{{Field: "uid"}}))
	assert.Contains(t, buf.String(), "FIELD")
	assert.Contains(t, buf.String(), "uid")

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatTable).Print(map[string]int{"n": 1}))
	assert.Contains(t, buf.String(), `"n": 1`, "non-tables fall back to JSON")
}

func TestPrinter_PrintList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable).PrintList(idRows{}, true, "No groups found."))
	assert.Equal(t, "No groups found.\n", buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatJSON).PrintList(idRows{}, true, "No groups found."))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatText).PrintList(idRows{{Field: "gid"}}, false, ""))
	assert.Contains(t, buf.String(), "FIELD", "text lists render as tables")
}

func TestSimpleTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SimpleTable(&buf, [][2]string{{"Source", "files"}, {"Policy", "members"}}))
	assert.Contains(t, buf.String(), "Source")
	assert.Contains(t, buf.String(), "members")
}
