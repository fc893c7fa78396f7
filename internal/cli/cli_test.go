package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/hiretrack/internal/entity"
	form "github.com/Additional-Code/hiretrack/internal/form/order"
)

func TestPromptForm(t *testing.T) {
	t.Run("should re-prompt until each field is valid", func(t *testing.T) {
		in := strings.NewReader(strings.Join([]string{
			"Al", "Ada Lovelace",
			"abc", "42",
			"Tent",
			"600", "60",
			"2024/03/01", "2024-03-01",
			"", "2024-3-8",
		}, "\n") + "\n")
		var out bytes.Buffer

		f := form.New()
		require.NoError(t, promptForm(in, &out, f))

		input, errs := f.Build()
		require.Nil(t, errs)
		assert.Equal(t, "Ada Lovelace", input.CustomerName)
		assert.Equal(t, int64(42), input.ReceiptNumber)
		assert.Equal(t, 60, input.HowMany)
		assert.Equal(t, "2024-03-08", input.ReturnOn.String())

		transcript := out.String()
		assert.Contains(t, transcript, "Customer name must be at least 3 characters")
		assert.Contains(t, transcript, "Receipt number must be a 64-bit integer")
		assert.Contains(t, transcript, "How many must not be more than 500")
		assert.Contains(t, transcript, "Hired on date must be formatted as YYYY-MM-DD")
		assert.Contains(t, transcript, "Return on date is required")
		assert.Equal(t, 11, strings.Count(transcript, "*: "))
	})

	t.Run("should fail when input ends early", func(t *testing.T) {
		err := promptForm(strings.NewReader("Ada Lovelace\n"), &bytes.Buffer{}, form.New())
		assert.ErrorContains(t, err, "receipt number")
	})
}

func TestRenderOrders(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, renderOrders(&out, []entity.Order{{
		ID:            1,
		CustomerName:  "Ada Lovelace",
		ReceiptNumber: 42,
		ItemHired:     "Tent",
		HowMany:       60,
		HiredOn:       entity.MustParseDate("2024-03-01"),
		ReturnOn:      entity.MustParseDate("2024-03-08"),
		BoxesNeeded:   3,
		RaffleNumber:  999,
	}}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"ID", "Customer", "Name", "Receipt", "No.", "Item", "Hired", "How", "Many", "Hired", "On", "Return", "On", "Boxes", "Raffle"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1", "Ada", "Lovelace", "42", "Tent", "60", "2024-03-01", "2024-03-08", "3", "999"}, strings.Fields(lines[1]))
}

func TestParseIDArg(t *testing.T) {
	id, err := parseIDArg("12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, raw := range []string{"0", "-1", "abc", ""} {
		_, err := parseIDArg(raw)
		assert.Error(t, err, raw)
	}
}

func TestRootCommand(t *testing.T) {
	root := NewRootCommand()

	for _, path := range [][]string{
		{"start"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
		{"seed"},
		{"worker", "run"},
		{"orders", "list"},
		{"orders", "add"},
		{"orders", "show"},
		{"orders", "delete"},
		{"orders", "overdue"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	add, _, err := root.Find([]string{"orders", "add"})
	require.NoError(t, err)
	for _, field := range form.Fields {
		assert.NotNil(t, add.Flags().Lookup(fieldFlags[field]), field)
	}
}
