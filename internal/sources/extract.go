// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sources

import (
	"fmt"
	"regexp"
)

// ExtractScriptArray locates `<variable> = [ ... ]` inside page markup and returns
// the bracket-balanced array literal. Brackets inside JSON strings are ignored.
// It returns ErrExtraction when the assignment is missing or never closes.
func ExtractScriptArray(markup, variable string) ([]byte, error) {
	re, err := regexp.Compile(regexp.QuoteMeta(variable) + `\s*=\s*\[`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	loc := re.FindStringIndex(markup)
	if loc == nil {
		return nil, fmt.Errorf("%w: no assignment to %s", ErrExtraction, variable)
	}
	start := loc[1] - 1 // opening '['

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(markup); i++ {
		c := markup[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return []byte(markup[start : i+1]), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: unterminated array for %s", ErrExtraction, variable)
}
