package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTabular(t *testing.T) {
	table := ParseTabular("Name,Email,Company\nAda,ada@example.com,\"Analytical Engines\"\nGrace,grace@example.com,Navy\n")

	assert.Equal(t, []string{"Name", "Email", "Company"}, table.Headers)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, "Analytical Engines", table.Rows[0]["Company"])
	assert.Equal(t, "grace@example.com", table.Rows[1]["Email"])
}

func TestParseTabularShortAndBlankRows(t *testing.T) {
	table := ParseTabular("Name,Email\r\nAda\r\n\r\nGrace,grace@example.com")

	assert.Len(t, table.Rows, 2)
	assert.Equal(t, "Ada", table.Rows[0]["Name"])
	assert.Equal(t, "", table.Rows[0]["Email"])
}

func TestParseTabularEmpty(t *testing.T) {
	table := ParseTabular("")
	assert.Nil(t, table.Headers)
	assert.Empty(t, table.Rows)
}
