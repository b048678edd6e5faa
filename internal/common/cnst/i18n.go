package cnst

const (
	LangFR      = "fr"
	LangEN      = "en"
	LangDefault = LangFR

	// XLang is both the request header and the gin context key carrying the
	// caller's language.
	XLang = "X-Lang"
)
