package text

import (
	"math"
	"strconv"
	"strings"
)

const (
	baseTen      = 10
	baseTwenty   = 20
	baseHundred  = 100
	baseThousand = 1000
	baseMillion  = 1000000

	// MaxNumberForWords is the largest integer spelled out; larger numbers
	// are read digit by digit.
	MaxNumberForWords = 999999999

	minusWord = "minus"
)

var (
	ones = []string{
		"zero", "one", "two", "three", "four", "five",
		"six", "seven", "eight", "nine",
	}
	teens = []string{
		"ten", "eleven", "twelve", "thirteen", "fourteen",
		"fifteen", "sixteen", "seventeen", "eighteen", "nineteen",
	}
	tens = []string{
		"", "", "twenty", "thirty", "forty", "fifty",
		"sixty", "seventy", "eighty", "ninety",
	}
)

// IntegerToWords spells out an integer in English words.
func IntegerToWords(number int) string {
	if number == math.MinInt {
		// -math.MinInt overflows; the magnitude is past MaxNumberForWords anyway.
		return minusWord + " " + spellDigits(strconv.Itoa(number)[1:])
	}

	if number < 0 {
		return minusWord + " " + IntegerToWords(-number)
	}

	if number > MaxNumberForWords {
		return spellDigits(strconv.Itoa(number))
	}

	if number == 0 {
		return ones[0]
	}

	var parts []string

	if millions := number / baseMillion; millions > 0 {
		parts = append(parts, underThousand(millions), "million")
	}

	if thousands := number % baseMillion / baseThousand; thousands > 0 {
		parts = append(parts, underThousand(thousands), "thousand")
	}

	if rest := number % baseThousand; rest > 0 {
		parts = append(parts, underThousand(rest))
	}

	return strings.Join(parts, " ")
}

func underThousand(number int) string {
	hundreds := number / baseHundred
	rest := number % baseHundred

	switch {
	case hundreds == 0:
		return underHundred(rest)
	case rest == 0:
		return ones[hundreds] + " hundred"
	default:
		return ones[hundreds] + " hundred " + underHundred(rest)
	}
}

func underHundred(number int) string {
	switch {
	case number < baseTen:
		return ones[number]
	case number < baseTwenty:
		return teens[number-baseTen]
	case number%baseTen == 0:
		return tens[number/baseTen]
	default:
		return tens[number/baseTen] + " " + ones[number%baseTen]
	}
}

func spellDigits(digits string) string {
	words := make([]string, 0, len(digits))
	for _, d := range digits {
		words = append(words, ones[d-'0'])
	}

	return strings.Join(words, " ")
}
