package deduction

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed statutory_table.yaml
var defaultTableYAML []byte

// Scheme is a percentage contribution clamped to [Min, Max]. A nil bound
// is not applied.
type Scheme struct {
	Rate decimal.Decimal
	Min  *decimal.Decimal
	Max  *decimal.Decimal
}

func (s Scheme) Monthly(salary decimal.Decimal) decimal.Decimal {
	amount := salary.Mul(s.Rate)
	if s.Min != nil && amount.LessThan(*s.Min) {
		amount = *s.Min
	}
	if s.Max != nil && amount.GreaterThan(*s.Max) {
		amount = *s.Max
	}
	return amount
}

// Bracket taxes the part of taxable income above Over at Rate, on top of Base.
type Bracket struct {
	Over decimal.Decimal
	Base decimal.Decimal
	Rate decimal.Decimal
}

type Table struct {
	Version    int
	SSS        Scheme
	PhilHealth Scheme
	PagIbig    Scheme
	Brackets   []Bracket
}

type tableYAML struct {
	Version       int `yaml:"version"`
	Contributions struct {
		SSS        schemeYAML `yaml:"sss"`
		PhilHealth schemeYAML `yaml:"philhealth"`
		PagIbig    schemeYAML `yaml:"pagibig"`
	} `yaml:"contributions"`
	WithholdingTax []bracketYAML `yaml:"withholding_tax"`
}

type schemeYAML struct {
	Rate string `yaml:"rate"`
	Min  string `yaml:"min"`
	Max  string `yaml:"max"`
}

type bracketYAML struct {
	Over string `yaml:"over"`
	Base string `yaml:"base"`
	Rate string `yaml:"rate"`
}

var (
	ErrUnsupportedTableVersion = errors.New("statutory table: unsupported version")
	ErrNoBrackets              = errors.New("statutory table: missing withholding_tax brackets")
	ErrBracketOrder            = errors.New("statutory table: brackets must be in ascending order starting at 0")
)

// DefaultTable returns the built-in contribution and withholding tax table.
func DefaultTable() Table {
	t, err := ParseTable(defaultTableYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded statutory table is invalid: %v", err))
	}
	return t
}

func LoadTable(path string) (Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	return ParseTable(b)
}

func ParseTable(b []byte) (Table, error) {
	var raw tableYAML
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return Table{}, fmt.Errorf("statutory table: %w", err)
	}
	if raw.Version != 1 {
		return Table{}, ErrUnsupportedTableVersion
	}

	t := Table{Version: raw.Version}
	var err error
	if t.SSS, err = raw.Contributions.SSS.parse("sss"); err != nil {
		return Table{}, err
	}
	if t.PhilHealth, err = raw.Contributions.PhilHealth.parse("philhealth"); err != nil {
		return Table{}, err
	}
	if t.PagIbig, err = raw.Contributions.PagIbig.parse("pagibig"); err != nil {
		return Table{}, err
	}

	if len(raw.WithholdingTax) == 0 {
		return Table{}, ErrNoBrackets
	}
	for i, rb := range raw.WithholdingTax {
		var b Bracket
		if b.Over, err = parseAmount(rb.Over, fmt.Sprintf("withholding_tax[%d].over", i)); err != nil {
			return Table{}, err
		}
		if b.Base, err = parseAmount(rb.Base, fmt.Sprintf("withholding_tax[%d].base", i)); err != nil {
			return Table{}, err
		}
		if b.Rate, err = parseAmount(rb.Rate, fmt.Sprintf("withholding_tax[%d].rate", i)); err != nil {
			return Table{}, err
		}
		if i == 0 && !b.Over.IsZero() {
			return Table{}, ErrBracketOrder
		}
		if i > 0 && !b.Over.GreaterThan(t.Brackets[i-1].Over) {
			return Table{}, ErrBracketOrder
		}
		t.Brackets = append(t.Brackets, b)
	}
	return t, nil
}

func (s schemeYAML) parse(name string) (Scheme, error) {
	rate, err := parseAmount(s.Rate, name+".rate")
	if err != nil {
		return Scheme{}, err
	}
	scheme := Scheme{Rate: rate}
	if s.Min != "" {
		floor, err := parseAmount(s.Min, name+".min")
		if err != nil {
			return Scheme{}, err
		}
		scheme.Min = &floor
	}
	if s.Max != "" {
		ceiling, err := parseAmount(s.Max, name+".max")
		if err != nil {
			return Scheme{}, err
		}
		scheme.Max = &ceiling
	}
	if scheme.Min != nil && scheme.Max != nil && scheme.Min.GreaterThan(*scheme.Max) {
		return Scheme{}, fmt.Errorf("statutory table: %s.min is greater than %s.max", name, name)
	}
	return scheme, nil
}

func parseAmount(s, field string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("statutory table: %s is required", field)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("statutory table: invalid %s %q: %w", field, s, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("statutory table: %s must not be negative", field)
	}
	return d, nil
}
