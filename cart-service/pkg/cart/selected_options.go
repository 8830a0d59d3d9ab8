package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var ErrInvalidOptions = errors.New("invalid selected options")

// SelectedOptions maps option name to a non-negative quantity. The zero value
// is an empty selection; any other value comes from a validating constructor.
type SelectedOptions struct {
	qty map[string]int
}

func NewSelectedOptions(m map[string]int) (SelectedOptions, error) {
	if len(m) == 0 {
		return SelectedOptions{}, nil
	}
	out := SelectedOptions{qty: make(map[string]int, len(m))}
	for name, q := range m {
		if strings.TrimSpace(name) == "" {
			return SelectedOptions{}, fmt.Errorf("%w: empty option name", ErrInvalidOptions)
		}
		if q < 0 {
			return SelectedOptions{}, fmt.Errorf("%w: %q has negative quantity %d", ErrInvalidOptions, name, q)
		}
		out.qty[name] = q
	}
	return out, nil
}

// ParseSelectedOptions accepts a JSON object of integers. Empty input and null
// decode to an empty selection.
func ParseSelectedOptions(raw []byte) (SelectedOptions, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return SelectedOptions{}, nil
	}
	if raw[0] != '{' {
		return SelectedOptions{}, fmt.Errorf("%w: expected an object", ErrInvalidOptions)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var values map[string]interface{}
	if err := dec.Decode(&values); err != nil {
		return SelectedOptions{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	m := make(map[string]int, len(values))
	for name, v := range values {
		n, ok := v.(json.Number)
		if !ok {
			return SelectedOptions{}, fmt.Errorf("%w: %q is not a number", ErrInvalidOptions, name)
		}
		q, err := wholeNumber(n)
		if err != nil {
			return SelectedOptions{}, fmt.Errorf("%w: %q is not an integer", ErrInvalidOptions, name)
		}
		m[name] = q
	}
	return NewSelectedOptions(m)
}

// wholeNumber accepts integral floats such as 1.0 or 2e0.
func wholeNumber(n json.Number) (int, error) {
	if q, err := n.Int64(); err == nil {
		return int(q), nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, strconv.ErrRange
	}
	return int(f), nil
}

// ParseSelectedOptionArgs reads "name=qty" pairs as typed on the command line.
func ParseSelectedOptionArgs(args []string) (SelectedOptions, error) {
	m := make(map[string]int, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return SelectedOptions{}, fmt.Errorf("%w: %q is not name=qty", ErrInvalidOptions, arg)
		}
		q, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return SelectedOptions{}, fmt.Errorf("%w: %q is not an integer", ErrInvalidOptions, value)
		}
		m[strings.TrimSpace(name)] = q
	}
	return NewSelectedOptions(m)
}

// SelectedOptionsOrEmpty swallows malformed input into an empty selection.
func SelectedOptionsOrEmpty(raw []byte) SelectedOptions {
	opts, err := ParseSelectedOptions(raw)
	if err != nil {
		return SelectedOptions{}
	}
	return opts
}

func (o SelectedOptions) Quantity(name string) int { return o.qty[name] }

func (o SelectedOptions) Len() int { return len(o.qty) }

// Names is sorted so summaries render deterministically.
func (o SelectedOptions) Names() []string {
	names := make([]string, 0, len(o.qty))
	for name := range o.qty {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge overlays other on o key by key. Quantities are replaced, not summed.
func (o SelectedOptions) Merge(other SelectedOptions) SelectedOptions {
	if len(other.qty) == 0 {
		return o.Clone()
	}
	out := o.Clone()
	if out.qty == nil {
		out.qty = make(map[string]int, len(other.qty))
	}
	for name, q := range other.qty {
		out.qty[name] = q
	}
	return out
}

func (o SelectedOptions) Clone() SelectedOptions {
	if len(o.qty) == 0 {
		return SelectedOptions{}
	}
	out := SelectedOptions{qty: make(map[string]int, len(o.qty))}
	for name, q := range o.qty {
		out.qty[name] = q
	}
	return out
}

func (o SelectedOptions) MarshalJSON() ([]byte, error) {
	if len(o.qty) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(o.qty)
}

func (o *SelectedOptions) UnmarshalJSON(data []byte) error {
	parsed, err := ParseSelectedOptions(data)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
