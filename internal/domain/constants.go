package domain

import "strings"

const (
	ActionGood = "GOOD"
	ActionBad  = "BAD"
)

const (
	VerdictPositive = "POSITIVE"
	VerdictNegative = "NEGATIVE"
	VerdictNeutral  = "NEUTRAL"
)

const (
	LangFrench  = "fr"
	LangArabic  = "ar"
	LangEnglish = "en"
)

// DefaultLang is used when the caller sends no language or one we do not serve.
const DefaultLang = LangFrench

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// RecentHistoryLimit caps GET /balance/recent.
const RecentHistoryLimit = 30

// DefaultActionWeight applies to catalog entries that omit a weight.
const DefaultActionWeight = 1

func IsActionType(t string) bool {
	return t == ActionGood || t == ActionBad
}

// NormalizeLang maps an arbitrary language code onto a served one.
func NormalizeLang(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	switch code {
	case LangFrench, LangArabic, LangEnglish:
		return code
	default:
		return DefaultLang
	}
}
