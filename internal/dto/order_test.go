package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormText(t *testing.T) {
	t.Run("should accept strings, numbers and null", func(t *testing.T) {
		var form OrderForm
		err := json.Unmarshal([]byte(`{
			"customer_name": "Ada",
			"receipt_number": 9007199254740993,
			"how_many": 30,
			"hired_on": null
		}`), &form)
		require.NoError(t, err)

		assert.Equal(t, FormText("Ada"), form.CustomerName)
		assert.Equal(t, FormText("9007199254740993"), form.ReceiptNumber)
		assert.Equal(t, FormText("30"), form.HowMany)
		assert.Empty(t, form.HiredOn)
		assert.Empty(t, form.ItemHired)
	})

	t.Run("should keep decimals as typed", func(t *testing.T) {
		var text FormText
		require.NoError(t, json.Unmarshal([]byte(`2.5`), &text))
		assert.Equal(t, FormText("2.5"), text)
	})

	t.Run("should reject other json types", func(t *testing.T) {
		var text FormText
		assert.Error(t, json.Unmarshal([]byte(`true`), &text))
		assert.Error(t, json.Unmarshal([]byte(`["a"]`), &text))
	})

	t.Run("should read touched fields alongside the form", func(t *testing.T) {
		var req ValidateOrderRequest
		require.NoError(t, json.Unmarshal([]byte(`{"item_hired":"Tent","touched":["item_hired"]}`), &req))
		assert.Equal(t, FormText("Tent"), req.ItemHired)
		assert.Equal(t, []string{"item_hired"}, req.Touched)
	})
}
