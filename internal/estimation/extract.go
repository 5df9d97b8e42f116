package estimation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Number-like tokens: optional sign, integer or fractional body, and an
// optional exponent marker that may be incomplete ("1.2e"). Incomplete forms
// are caught by strict parsing below and reported as NumericParseError.
var numberTokenRe = regexp.MustCompile(`[-+]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d*)?`)

// ErrNoNumberFound reports a model response with no number-like token at all.
var ErrNoNumberFound = errors.New("no numeric literal in model response")

// NumericParseError reports that the response contained number-like tokens
// but none of them survived strict decimal parsing.
type NumericParseError struct {
	Token string
	Err   error
}

func (e *NumericParseError) Error() string {
	return fmt.Sprintf("numeric token %q failed to parse: %v", e.Token, e.Err)
}

func (e *NumericParseError) Unwrap() error { return e.Err }

// ExtractFactor pulls the adjustment factor out of a free-form model
// response. The model is instructed to answer with a bare number but is not
// trusted to: the response may wrap the number in prose, prefix it with
// currency symbols, or contain no number at all. The first token that
// strictly parses as a decimal wins and is returned as-is, without clamping
// to [FactorFloor, FactorCeil]; range policy belongs to the caller.
func ExtractFactor(raw string) (float64, error) {
	tokens := numberTokenRe.FindAllString(raw, -1)
	if len(tokens) == 0 {
		return 0, ErrNoNumberFound
	}
	var parseErr *NumericParseError
	for _, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			if parseErr == nil {
				parseErr = &NumericParseError{Token: tok, Err: err}
			}
			continue
		}
		return v, nil
	}
	return 0, parseErr
}
