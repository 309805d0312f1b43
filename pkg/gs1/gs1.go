// Package gs1 parses GS1 element strings written in the bracketed
// human-readable form, e.g. "(01)09501101530003(17)250101", and lays them out
// as Code 128 input with FNC1 separators.
package gs1

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every error returned by Parse wraps one of them.
var (
	ErrSyntax     = errors.New("gs1: bad AI syntax")
	ErrCheckDigit = errors.New("gs1: bad checksum")
)

// Element is one application identifier and its data field
type Element struct {
	AI   string
	Data string
}

type aiSpec struct {
	fixed   int // exact data length, 0 for variable
	max     int // upper bound for variable fields
	numeric bool
	date    bool
	check   bool // last digit is a mod-10 check digit
}

var known = map[string]aiSpec{
	"00":   {fixed: 18, numeric: true, check: true},
	"01":   {fixed: 14, numeric: true, check: true},
	"02":   {fixed: 14, numeric: true, check: true},
	"10":   {max: 20},
	"11":   {fixed: 6, numeric: true, date: true},
	"12":   {fixed: 6, numeric: true, date: true},
	"13":   {fixed: 6, numeric: true, date: true},
	"15":   {fixed: 6, numeric: true, date: true},
	"16":   {fixed: 6, numeric: true, date: true},
	"17":   {fixed: 6, numeric: true, date: true},
	"20":   {fixed: 2, numeric: true},
	"21":   {max: 20},
	"22":   {max: 20},
	"240":  {max: 30},
	"241":  {max: 30},
	"250":  {max: 30},
	"251":  {max: 30},
	"30":   {max: 8, numeric: true},
	"37":   {max: 8, numeric: true},
	"400":  {max: 30},
	"410":  {fixed: 13, numeric: true, check: true},
	"411":  {fixed: 13, numeric: true, check: true},
	"412":  {fixed: 13, numeric: true, check: true},
	"413":  {fixed: 13, numeric: true, check: true},
	"414":  {fixed: 13, numeric: true, check: true},
	"415":  {fixed: 13, numeric: true, check: true},
	"420":  {max: 20},
	"422":  {fixed: 3, numeric: true},
	"7003": {fixed: 10, numeric: true},
	"8005": {fixed: 6, numeric: true},
	"90":   {max: 30},
}

func lookup(ai string) (aiSpec, bool) {
	if s, ok := known[ai]; ok {
		return s, true
	}
	// 310n..369n: measures with an implied decimal position n
	if len(ai) == 4 && ai[0] == '3' && ai[1] >= '1' && ai[1] <= '6' && isDigits(ai[2:]) {
		return aiSpec{fixed: 6, numeric: true}, true
	}
	// 91..99: company internal
	if len(ai) == 2 && ai[0] == '9' && ai[1] >= '1' && ai[1] <= '9' {
		return aiSpec{max: 90}, true
	}
	return aiSpec{}, false
}

// Parse splits a bracketed element string and checks every field against the
// known AI table.
func Parse(s string) ([]Element, error) {
	if !strings.HasPrefix(s, "(") {
		return nil, fmt.Errorf("%w: element string must start with \"(\"", ErrSyntax)
	}

	var out []Element
	rest := s
	for rest != "" {
		if rest[0] != '(' {
			return nil, fmt.Errorf("%w: expected \"(\" at %q", ErrSyntax, rest)
		}
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return nil, fmt.Errorf("%w: unterminated AI in %q", ErrSyntax, rest)
		}
		ai := rest[1:end]
		rest = rest[end+1:]

		next := strings.IndexByte(rest, '(')
		data := rest
		if next >= 0 {
			data = rest[:next]
			rest = rest[next:]
		} else {
			rest = ""
		}

		if err := checkElement(ai, data); err != nil {
			return nil, err
		}
		out = append(out, Element{AI: ai, Data: data})
	}
	return out, nil
}

func checkElement(ai, data string) error {
	if len(ai) < 2 || len(ai) > 4 || !isDigits(ai) {
		return fmt.Errorf("%w: invalid AI (%s)", ErrSyntax, ai)
	}
	rule, ok := lookup(ai)
	if !ok {
		return fmt.Errorf("%w: unknown AI (%s)", ErrSyntax, ai)
	}
	if data == "" {
		return fmt.Errorf("%w: AI (%s) has no data", ErrSyntax, ai)
	}
	if rule.fixed > 0 && len(data) != rule.fixed {
		return fmt.Errorf("%w: AI (%s) requires %d characters, got %d", ErrSyntax, ai, rule.fixed, len(data))
	}
	if rule.max > 0 && len(data) > rule.max {
		return fmt.Errorf("%w: AI (%s) allows at most %d characters, got %d", ErrSyntax, ai, rule.max, len(data))
	}
	if rule.numeric && !isDigits(data) {
		return fmt.Errorf("%w: AI (%s) must be numeric", ErrSyntax, ai)
	}
	for _, r := range data {
		if r < 0x21 || r > 0x7e {
			return fmt.Errorf("%w: AI (%s) contains invalid character %q", ErrSyntax, ai, r)
		}
	}
	if rule.date && !validDate(data) {
		return fmt.Errorf("%w: AI (%s) is not a valid YYMMDD date", ErrSyntax, ai)
	}
	if rule.check && CheckDigit(data[:len(data)-1]) != data[len(data)-1] {
		return fmt.Errorf("%w: AI (%s) check digit should be %c", ErrCheckDigit, ai, CheckDigit(data[:len(data)-1]))
	}
	return nil
}

// CheckDigit computes the GS1 mod-10 check digit for a string of digits
func CheckDigit(digits string) byte {
	sum := 0
	weight := 3
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		if weight == 3 {
			weight = 1
		} else {
			weight = 3
		}
	}
	return byte('0' + (10-sum%10)%10)
}

// Code128Input lays elements out for a Code 128 encoder: a leading FNC1, then
// each AI and its data, with an FNC1 after every variable-length field that
// is not the last.
func Code128Input(elements []Element, fnc1 rune) string {
	var b strings.Builder
	b.WriteRune(fnc1)
	for i, e := range elements {
		b.WriteString(e.AI)
		b.WriteString(e.Data)
		rule, _ := lookup(e.AI)
		if rule.fixed == 0 && i < len(elements)-1 {
			b.WriteRune(fnc1)
		}
	}
	return b.String()
}

// HumanReadable renders elements in bracketed form
func HumanReadable(elements []Element) string {
	var b strings.Builder
	for _, e := range elements {
		b.WriteString("(")
		b.WriteString(e.AI)
		b.WriteString(")")
		b.WriteString(e.Data)
	}
	return b.String()
}

func validDate(s string) bool {
	month := (s[2]-'0')*10 + (s[3] - '0')
	day := (s[4]-'0')*10 + (s[5] - '0')
	return month >= 1 && month <= 12 && day <= 31
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
