// Package oib generates and verifies Croatian personal identification
// numbers (OIB).
//
// An OIB is 11 decimal digits. The last digit is a control digit computed
// over the first ten with the ISO 7064 MOD 11,10 scheme.
//
// Typical usage:
//
//	v := oib.Generate()       // e.g. "69435151530"
//	ok := oib.Verify(v)       // true
package oib

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	// PrefixLen is the number of random digits preceding the control digit.
	PrefixLen = 10
	// Len is the full length of an OIB.
	Len = PrefixLen + 1
)

// ErrInvalidPrefix is returned by ControlDigit when the input is not exactly
// PrefixLen decimal digits.
var ErrInvalidPrefix = errors.New("prefix must be 10 decimal digits")

// DigitSource yields integers in [0, n). *rand.Rand from math/rand/v2
// satisfies it.
type DigitSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Generator produces random OIB values from its DigitSource.
type Generator struct {
	src DigitSource
}

// NewGenerator returns a Generator reading digits from src. A nil src falls
// back to the math/rand/v2 global source.
func NewGenerator(src DigitSource) *Generator {
	if src == nil {
		src = globalSource{}
	}
	return &Generator{src: src}
}

// Generate returns a random 11-digit value with a valid control digit.
func (g *Generator) Generate() string {
	var b strings.Builder
	b.Grow(Len)

	digits := make([]int, PrefixLen)
	for i := range digits {
		d := g.src.IntN(10)
		digits[i] = d
		b.WriteByte(byte('0' + d))
	}
	b.WriteByte(byte('0' + controlDigit(digits)))
	return b.String()
}

var defaultGenerator = NewGenerator(nil)

// Generate returns a random OIB using the default generator.
func Generate() string {
	return defaultGenerator.Generate()
}

// ControlDigit computes the MOD 11,10 control digit over a 10-digit prefix.
func ControlDigit(prefix string) (int, error) {
	digits, err := parseDigits(prefix)
	if err != nil {
		return 0, err
	}
	if len(digits) != PrefixLen {
		return 0, ErrInvalidPrefix
	}
	return controlDigit(digits), nil
}

// Verify reports whether value is 11 digits whose last digit matches the
// control digit of the first ten.
func Verify(value string) bool {
	if len(value) != Len {
		return false
	}
	want, err := ControlDigit(value[:PrefixLen])
	if err != nil {
		return false
	}
	got, err := strconv.Atoi(value[PrefixLen:])
	if err != nil {
		return false
	}
	return got == want
}

// controlDigit expects digits already validated to be in 0..9.
func controlDigit(digits []int) int {
	acc := 10
	for _, d := range digits {
		acc = (acc + d) % 10
		if acc == 0 {
			acc = 10
		}
		acc = (acc * 2) % 11
	}
	return (11 - acc) % 10
}

func parseDigits(s string) ([]int, error) {
	out := make([]int, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return nil, ErrInvalidPrefix
		}
		out = append(out, int(c-'0'))
	}
	return out, nil
}
