package grammar

import "github.com/marrow/uri/internal/constraints"

// IsScheme checks scheme = ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ).
func IsScheme[T constraints.Byteseq](s T) bool {
	if len(s) == 0 || !IsAlphaChar(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isSchemeChar(s[i]) {
			return false
		}
	}
	return true
}

func isSchemeChar(c byte) bool {
	switch c {
	case '+', '-', '.':
		return true
	}
	return IsAlphanumChar(c)
}
