package phonenumber

import (
	"regexp"
	"strings"
)

// InternationalFormat selects the notation accepted for international numbers.
type InternationalFormat int

const (
	// FormatNone disables international checking.
	FormatNone InternationalFormat = iota
	// FormatEPP is the Extensible Provisioning Protocol notation (RFC 4933
	// section 2.5): +CC.NNNNNNNN with an optional extension after x or #.
	FormatEPP
	// FormatITU is the ITU-T E.123 notation: country code and groups of digits
	// separated by space, dot or dash. Every EPP number is also valid ITU.
	FormatITU
)

const (
	formatTokenEPP = "EPP"
	formatTokenITU = "ITU"

	// maxInternationalDigits is the E.164 limit, extension excluded.
	maxInternationalDigits = 15
)

var (
	eppPattern = regexp.MustCompile(`^\+\d{1,3}\.\d{4,14}(?:[x#].+)?$`)
	ituPattern = regexp.MustCompile(`^\+\d{1,3}[-. ](\d{2,6}([-. ])?){1,4}(?:(x|#).+)?$`)

	// extensionPattern splits a number from a trailing extension: the extension
	// starts at the first letter or '#', never at the first character.
	extensionPattern = regexp.MustCompile(`^(.+?)([a-zA-Z#].+)?$`)
	nonDigitPattern  = regexp.MustCompile(`\D`)
)

// String returns the canonical token ("EPP", "ITU") or "" for FormatNone.
func (f InternationalFormat) String() string {
	switch f {
	case FormatEPP:
		return formatTokenEPP
	case FormatITU:
		return formatTokenITU
	default:
		return ""
	}
}

// Enabled reports whether international checking is on.
func (f InternationalFormat) Enabled() bool {
	return f == FormatEPP || f == FormatITU
}

// ParseInternationalFormat resolves a case-insensitive "EPP"/"ITU" token.
// Any other token is reported as ok=false; callers turn that into a
// configuration error carrying their own message.
func ParseInternationalFormat(token string) (InternationalFormat, bool) {
	switch strings.ToUpper(token) {
	case formatTokenEPP:
		return FormatEPP, true
	case formatTokenITU:
		return FormatITU, true
	default:
		return FormatNone, false
	}
}

// MatchEPP reports whether s is an EPP number within the E.164 length limit.
func MatchEPP(s string) bool {
	return eppPattern.MatchString(s) && withinLengthLimit(s)
}

// MatchITU reports whether s is an ITU E.123 number within the E.164 length limit.
func MatchITU(s string) bool {
	return ituPattern.MatchString(s) && withinLengthLimit(s)
}

// MatchInternational dispatches on format; FormatNone never matches.
func MatchInternational(format InternationalFormat, s string) bool {
	switch format {
	case FormatEPP:
		return MatchEPP(s)
	case FormatITU:
		return MatchITU(s)
	default:
		return false
	}
}

// withinLengthLimit counts significant digits with any extension removed.
func withinLengthLimit(s string) bool {
	number := extensionPattern.ReplaceAllString(s, "$1")
	digits := nonDigitPattern.ReplaceAllString(number, "")
	return len(digits) <= maxInternationalDigits
}
