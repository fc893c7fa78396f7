package dto

import (
	"encoding/json"
	"strconv"
	"strings"
)

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID            int64  `json:"id"`
	CustomerName  string `json:"customer_name"`
	ReceiptNumber int64  `json:"receipt_number"`
	ItemHired     string `json:"item_hired"`
	HowMany       int    `json:"how_many"`
	HiredOn       string `json:"hired_on"`
	ReturnOn      string `json:"return_on"`
	BoxesNeeded   int    `json:"boxes_needed"`
	RaffleNumber  int    `json:"raffle_number"`
}

// OrderForm carries the raw, unvalidated order fields.
type OrderForm struct {
	CustomerName  FormText `json:"customer_name"`
	ReceiptNumber FormText `json:"receipt_number"`
	ItemHired     FormText `json:"item_hired"`
	HowMany       FormText `json:"how_many"`
	HiredOn       FormText `json:"hired_on"`
	ReturnOn      FormText `json:"return_on"`
}

// ValidateOrderRequest asks for the errors of the fields a user has touched so far.
type ValidateOrderRequest struct {
	OrderForm
	Touched []string `json:"touched"`
}

// ValidateOrderResponse lists the visible field errors.
type ValidateOrderResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// FormText is a free text form value that also accepts JSON numbers, so
// {"how_many": 30} and {"how_many": "30"} read the same.
type FormText string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FormText) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FormText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*f = FormText(n.String())
	return nil
}
