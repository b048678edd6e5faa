package i18n

import (
	"embed"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gin-gonic/gin"
	"github.com/guichet-numerique/carrousel/internal/common/cnst"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var embedded embed.FS

// I18n manages internationalization and translations
type I18n struct {
	bundle      *i18n.Bundle
	defaultLang language.Tag
	supported   []language.Tag
	matcher     language.Matcher
}

// New creates a translator preloaded with the embedded fr and en catalogues.
func New(defaultLang string) (*I18n, error) {
	def := language.Make(defaultLang)
	if def == language.Und {
		def = language.French
	}
	bundle := i18n.NewBundle(def)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := embedded.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if _, err := bundle.LoadMessageFileFS(embedded, "locales/"+e.Name()); err != nil {
			return nil, fmt.Errorf("load %s: %w", e.Name(), err)
		}
	}

	t := &I18n{bundle: bundle, defaultLang: def}
	t.refreshMatcher()
	return t, nil
}

// LoadTranslations overlays *.toml files from dir on top of the embedded catalogues.
func (i *I18n) LoadTranslations(dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read translations directory: %w", err)
	}
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".toml") {
			continue
		}
		if _, err := i.bundle.LoadMessageFile(filepath.Join(dir, file.Name())); err != nil {
			return err
		}
	}
	i.refreshMatcher()
	return nil
}

func (i *I18n) refreshMatcher() {
	i.supported = i.bundle.LanguageTags()
	i.matcher = language.NewMatcher(i.supported)
}

// Translate returns the localized message, or "" when msgID is unknown.
func (i *I18n) Translate(msgID, lang string, data map[string]any) string {
	localizer := i18n.NewLocalizer(i.bundle, lang, i.defaultLang.String())
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: msgID, TemplateData: data})
	if err != nil {
		return ""
	}
	return msg
}

// Negotiate picks the best supported base language for an X-Lang or
// Accept-Language header value.
func (i *I18n) Negotiate(header string) string {
	if header == "" {
		return i.defaultLang.String()
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return i.defaultLang.String()
	}
	_, idx, conf := i.matcher.Match(tags...)
	if conf == language.No {
		return i.defaultLang.String()
	}
	base, _ := i.supported[idx].Base()
	return base.String()
}

// LanguageFromRequest reads X-Lang first, then Accept-Language.
func (i *I18n) LanguageFromRequest(r *http.Request) string {
	if lang := r.Header.Get(cnst.XLang); lang != "" {
		return i.Negotiate(lang)
	}
	return i.Negotiate(r.Header.Get("Accept-Language"))
}

// Middleware stores the negotiated language under cnst.XLang.
func (i *I18n) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(cnst.XLang, i.LanguageFromRequest(c.Request))
		c.Next()
	}
}

// LangFromContext returns the language set by Middleware, or the default.
func LangFromContext(c *gin.Context) string {
	if v, ok := c.Get(cnst.XLang); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return cnst.LangDefault
}
