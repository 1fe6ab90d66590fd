package config

const (
	LangEN = "en"
	LangES = "es"
)

// SupportedLanguage returns lang when messages exist for it, else English.
func SupportedLanguage(lang string) string {
	switch lang {
	case LangEN, LangES:
		return lang
	default:
		return LangEN
	}
}
