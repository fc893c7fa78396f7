// Package order validates the free text order form before anything touches
// the database.
package order

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Additional-Code/hiretrack/internal/entity"
)

// Field names a single input on the order form.
type Field string

const (
	FieldCustomerName  Field = "customer_name"
	FieldReceiptNumber Field = "receipt_number"
	FieldItemHired     Field = "item_hired"
	FieldHowMany       Field = "how_many"
	FieldHiredOn       Field = "hired_on"
	FieldReturnOn      Field = "return_on"
)

// Fields lists every form field in display order.
var Fields = []Field{
	FieldCustomerName,
	FieldReceiptNumber,
	FieldItemHired,
	FieldHowMany,
	FieldHiredOn,
	FieldReturnOn,
}

const (
	minTextLen = 3
	maxTextLen = 30
	minHowMany = 1
	maxHowMany = 500
)

// Label is the human readable field name.
func (f Field) Label() string {
	switch f {
	case FieldCustomerName:
		return "Customer name"
	case FieldReceiptNumber:
		return "Receipt number"
	case FieldItemHired:
		return "Item hired"
	case FieldHowMany:
		return "How many"
	case FieldHiredOn:
		return "Hired on"
	case FieldReturnOn:
		return "Return on"
	default:
		return string(f)
	}
}

// ParseField resolves a field name; ok is false for unknown names.
func ParseField(name string) (Field, bool) {
	f := Field(strings.TrimSpace(name))
	for _, known := range Fields {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// Errors maps fields to their validation messages.
type Errors map[Field]string

// Error implements error with messages in field order.
func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, f := range Fields {
		if msg, ok := e[f]; ok {
			msgs = append(msgs, msg)
		}
	}
	return strings.Join(msgs, "; ")
}

// Details converts the errors into a JSON friendly map.
func (e Errors) Details() map[string]any {
	out := make(map[string]any, len(e))
	for f, msg := range e {
		out[string(f)] = msg
	}
	return out
}

// Strings returns the errors keyed by plain field names.
func (e Errors) Strings() map[string]string {
	out := make(map[string]string, len(e))
	for f, msg := range e {
		out[string(f)] = msg
	}
	return out
}

// Input holds validated, typed form values.
type Input struct {
	CustomerName  string
	ReceiptNumber int64
	ItemHired     string
	HowMany       int
	HiredOn       entity.Date
	ReturnOn      entity.Date
}

// Order converts the input into an unsaved order.
func (in Input) Order() *entity.Order {
	return &entity.Order{
		CustomerName:  in.CustomerName,
		ReceiptNumber: in.ReceiptNumber,
		ItemHired:     in.ItemHired,
		HowMany:       in.HowMany,
		HiredOn:       in.HiredOn,
		ReturnOn:      in.ReturnOn,
	}
}

// OrderForm holds the raw text of each field and whether its error should
// be shown yet. The zero value is an empty form with every error hidden.
type OrderForm struct {
	values  map[Field]string
	visible map[Field]bool
}

// New returns an empty form.
func New() *OrderForm {
	return &OrderForm{}
}

// Set stores a field value and makes its error visible, matching a user
// editing the field.
func (f *OrderForm) Set(field Field, value string) {
	field, ok := ParseField(string(field))
	if !ok {
		return
	}
	if f.values == nil {
		f.values = make(map[Field]string, len(Fields))
	}
	f.values[field] = value
	f.Touch(field)
}

// Value returns the raw text of a field.
func (f *OrderForm) Value(field Field) string {
	field, _ = ParseField(string(field))
	return f.values[field]
}

// Touch makes the error of a field visible without changing its value.
func (f *OrderForm) Touch(field Field) {
	field, ok := ParseField(string(field))
	if !ok {
		return
	}
	if f.visible == nil {
		f.visible = make(map[Field]bool, len(Fields))
	}
	f.visible[field] = true
}

// RevealAll makes every field error visible, as on submit.
func (f *OrderForm) RevealAll() {
	for _, field := range Fields {
		f.Touch(field)
	}
}

// Hide hides every field error but keeps the values.
func (f *OrderForm) Hide() {
	f.visible = nil
}

// Reset clears all values and hides every error.
func (f *OrderForm) Reset() {
	f.values = nil
	f.visible = nil
}

// ValidCustomerName returns the customer name or its error message.
func (f *OrderForm) ValidCustomerName() (string, error) {
	return validText(FieldCustomerName, f.Value(FieldCustomerName))
}

// ValidReceiptNumber returns the receipt number as an int64.
func (f *OrderForm) ValidReceiptNumber() (int64, error) {
	raw := f.Value(FieldReceiptNumber)
	if raw == "" {
		return 0, required(FieldReceiptNumber)
	}
	rn, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a 64-bit integer", FieldReceiptNumber.Label())
	}
	return rn, nil
}

// ValidItemHired returns the item description or its error message.
func (f *OrderForm) ValidItemHired() (string, error) {
	return validText(FieldItemHired, f.Value(FieldItemHired))
}

// ValidHowMany returns the quantity, which must lie in [1, 500].
func (f *OrderForm) ValidHowMany() (int, error) {
	raw := f.Value(FieldHowMany)
	if raw == "" {
		return 0, required(FieldHowMany)
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", FieldHowMany.Label())
	}
	switch {
	case n < minHowMany:
		return 0, fmt.Errorf("%s must be at least %d", FieldHowMany.Label(), minHowMany)
	case n > maxHowMany:
		return 0, fmt.Errorf("%s must not be more than %d", FieldHowMany.Label(), maxHowMany)
	}
	return int(n), nil
}

// ValidHiredOn returns the hire date.
func (f *OrderForm) ValidHiredOn() (entity.Date, error) {
	return validDate(FieldHiredOn, f.Value(FieldHiredOn))
}

// ValidReturnOn returns the return date. It is not compared to the hire date.
func (f *OrderForm) ValidReturnOn() (entity.Date, error) {
	return validDate(FieldReturnOn, f.Value(FieldReturnOn))
}

func (f *OrderForm) validate(field Field) error {
	var err error
	switch field {
	case FieldCustomerName:
		_, err = f.ValidCustomerName()
	case FieldReceiptNumber:
		_, err = f.ValidReceiptNumber()
	case FieldItemHired:
		_, err = f.ValidItemHired()
	case FieldHowMany:
		_, err = f.ValidHowMany()
	case FieldHiredOn:
		_, err = f.ValidHiredOn()
	case FieldReturnOn:
		_, err = f.ValidReturnOn()
	}
	return err
}

// FieldError returns the error of a field, but only once it is visible.
func (f *OrderForm) FieldError(field Field) (string, bool) {
	field, _ = ParseField(string(field))
	if !f.visible[field] {
		return "", false
	}
	if err := f.validate(field); err != nil {
		return err.Error(), true
	}
	return "", false
}

// VisibleErrors collects every visible field error.
func (f *OrderForm) VisibleErrors() Errors {
	errs := Errors{}
	for _, field := range Fields {
		if msg, ok := f.FieldError(field); ok {
			errs[field] = msg
		}
	}
	return errs
}

// Build validates every field regardless of visibility.
func (f *OrderForm) Build() (Input, Errors) {
	errs := Errors{}
	var in Input
	var err error

	if in.CustomerName, err = f.ValidCustomerName(); err != nil {
		errs[FieldCustomerName] = err.Error()
	}
	if in.ReceiptNumber, err = f.ValidReceiptNumber(); err != nil {
		errs[FieldReceiptNumber] = err.Error()
	}
	if in.ItemHired, err = f.ValidItemHired(); err != nil {
		errs[FieldItemHired] = err.Error()
	}
	if in.HowMany, err = f.ValidHowMany(); err != nil {
		errs[FieldHowMany] = err.Error()
	}
	if in.HiredOn, err = f.ValidHiredOn(); err != nil {
		errs[FieldHiredOn] = err.Error()
	}
	if in.ReturnOn, err = f.ValidReturnOn(); err != nil {
		errs[FieldReturnOn] = err.Error()
	}

	if len(errs) > 0 {
		return Input{}, errs
	}
	return in, nil
}

// SortedFields returns the fields present in errs in display order.
func (e Errors) SortedFields() []Field {
	out := make([]Field, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return position(out[i]) < position(out[j]) })
	return out
}

func position(f Field) int {
	for i, known := range Fields {
		if known == f {
			return i
		}
	}
	return len(Fields)
}

func required(field Field) error {
	if field == FieldHiredOn || field == FieldReturnOn {
		return fmt.Errorf("%s date is required", field.Label())
	}
	return fmt.Errorf("%s is required", field.Label())
}

func validText(field Field, value string) (string, error) {
	if value == "" {
		return "", required(field)
	}
	n := utf8.RuneCountInString(value)
	switch {
	case n > maxTextLen:
		return "", fmt.Errorf("%s must be less than %d characters", field.Label(), maxTextLen)
	case n < minTextLen:
		return "", fmt.Errorf("%s must be at least %d characters", field.Label(), minTextLen)
	}
	return value, nil
}

func validDate(field Field, value string) (entity.Date, error) {
	if value == "" {
		return entity.Date{}, required(field)
	}
	d, err := entity.ParseDate(value)
	if err != nil {
		return entity.Date{}, fmt.Errorf("%s date must be formatted as YYYY-MM-DD e.g. 2025-03-18", field.Label())
	}
	return d, nil
}
