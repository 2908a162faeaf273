package phonemize

import (
	"errors"
	"fmt"
	"strconv"
)

// Stress is the lexical stress digit attached to a vowel phone.
type Stress int8

// Stress levels as written in CMU-style dictionaries.
const (
	NoStress         Stress = -1
	StressUnstressed Stress = 0
	StressPrimary    Stress = 1
	StressSecondary  Stress = 2
)

// StressPolicy selects how stress digits are folded before IPA lookup.
type StressPolicy int

const (
	// StressKeepPrimary strips "0" and keeps "1" and "2", so stressed vowels
	// map to their long or strong glyphs ("AA1" -> "ɑː").
	StressKeepPrimary StressPolicy = iota
	// StressStripAll strips every stress digit ("AA1" -> "ɑ").
	StressStripAll
)

// Stress policy names accepted in configuration.
const (
	stressKeepPrimaryName = "keep_primary"
	stressStripAllName    = "strip_all"
)

var (
	// ErrUnknownPhone is returned for a symbol outside the IPA table.
	ErrUnknownPhone = errors.New("unknown phone symbol")
	// ErrInvalidStress is returned for a malformed or misplaced stress digit.
	ErrInvalidStress = errors.New("invalid stress marker")
	// ErrUnknownStressPolicy is returned by ParseStressPolicy.
	ErrUnknownStressPolicy = errors.New("unknown stress policy")
)

var vowels = map[string]struct{}{
	"AA": {}, "AE": {}, "AH": {}, "AO": {}, "AW": {}, "AY": {}, "EH": {}, "ER": {},
	"EY": {}, "IH": {}, "IY": {}, "OW": {}, "OY": {}, "UH": {}, "UW": {},
}

// Phone is a dictionary phonetic symbol with an optional stress digit.
type Phone struct {
	Symbol string
	Stress Stress
}

// ParsePhone parses symbols such as "K", "AH0" or "EY1".
func ParsePhone(raw string) (Phone, error) {
	if raw == "" {
		return Phone{}, fmt.Errorf("%w: empty symbol", ErrUnknownPhone)
	}

	symbol := raw
	stress := NoStress

	last := raw[len(raw)-1]
	if last >= '0' && last <= '9' {
		digit, _ := strconv.Atoi(string(last))
		if digit > int(StressSecondary) {
			return Phone{}, fmt.Errorf("%w: %q", ErrInvalidStress, raw)
		}

		symbol = raw[:len(raw)-1]
		stress = Stress(digit)
	}

	if _, ok := ipaTable[symbol]; !ok {
		return Phone{}, fmt.Errorf("%w: %q", ErrUnknownPhone, raw)
	}

	if _, vowel := vowels[symbol]; !vowel && stress != NoStress {
		return Phone{}, fmt.Errorf("%w: consonant %q carries stress", ErrInvalidStress, raw)
	}

	return Phone{Symbol: symbol, Stress: stress}, nil
}

// String renders the phone in dictionary notation.
func (p Phone) String() string {
	if p.Stress == NoStress {
		return p.Symbol
	}

	return p.Symbol + strconv.Itoa(int(p.Stress))
}

// Key returns the IPA table key for the phone under the given policy.
func (p Phone) Key(policy StressPolicy) string {
	if policy == StressStripAll || p.Stress == NoStress || p.Stress == StressUnstressed {
		return p.Symbol
	}

	return p.Symbol + strconv.Itoa(int(p.Stress))
}

// ParseStressPolicy maps a configuration name to a StressPolicy.
// The empty string selects StressKeepPrimary.
func ParseStressPolicy(name string) (StressPolicy, error) {
	switch name {
	case "", stressKeepPrimaryName:
		return StressKeepPrimary, nil
	case stressStripAllName:
		return StressStripAll, nil
	default:
		return StressKeepPrimary, fmt.Errorf("%w: %q", ErrUnknownStressPolicy, name)
	}
}

func (s StressPolicy) String() string {
	if s == StressStripAll {
		return stressStripAllName
	}

	return stressKeepPrimaryName
}
