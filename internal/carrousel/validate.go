package carrousel

import (
	"strings"
	"unicode/utf8"
)

// Issue codes double as message IDs in the translation catalogues.
const (
	IssueMissingTitle = "SlideMissingTitle"
	IssueTooFew       = "SlideTooFew"
	IssueTooMany      = "SlideTooMany"
	IssueBookends     = "SlideBookends"
	IssueUnknownType  = "SlideUnknownType"
	IssueInactiveType = "SlideInactiveType"
	IssueTextTooLong  = "SlideTextTooLong"
)

// Default bounds on the number of content slides.
const (
	DefaultMinSlides = 2
	DefaultMaxSlides = 8
)

// TypeRule is the registry entry a content slide is checked against.
type TypeRule struct {
	CharLimit int
	Active    bool
}

// Limits bounds a carousel. A nil Types map disables per-type checks.
type Limits struct {
	MinSlides int
	MaxSlides int
	Types     map[Kind]TypeRule
}

func DefaultLimits() Limits {
	return Limits{MinSlides: DefaultMinSlides, MaxSlides: DefaultMaxSlides}
}

// Issue is a single validation failure.
type Issue struct {
	Code   string         `json:"code"`
	Page   int            `json:"page,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// ValidationError lists every issue found in a carousel.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	codes := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		codes = append(codes, is.Code)
	}
	return "invalid carousel: " + strings.Join(codes, ", ")
}

// Validate checks a renumbered slide list. It returns a *ValidationError
// or nil.
func Validate(slides []Slide, lim Limits) error {
	var issues []Issue

	titles, finals := 0, 0
	for _, s := range slides {
		switch s.Kind() {
		case KindTitle:
			titles++
		case KindFinal:
			finals++
		}
	}
	if len(slides) == 0 || titles != 1 || finals != 1 ||
		slides[0].Kind() != KindTitle || slides[len(slides)-1].Kind() != KindFinal {
		issues = append(issues, Issue{Code: IssueBookends})
	}

	title, _ := Bookends(slides)
	if title == nil || strings.TrimSpace(title.Thematique) == "" || strings.TrimSpace(title.Titre) == "" {
		issues = append(issues, Issue{Code: IssueMissingTitle, Page: TitlePage})
	}

	content := Intermediates(slides)
	if n := len(content); n < lim.MinSlides {
		issues = append(issues, Issue{Code: IssueTooFew, Params: map[string]any{"Min": lim.MinSlides}})
	} else if lim.MaxSlides > 0 && n > lim.MaxSlides {
		issues = append(issues, Issue{Code: IssueTooMany, Params: map[string]any{"Max": lim.MaxSlides}})
	}

	if lim.Types != nil {
		for _, s := range content {
			issues = append(issues, checkType(s, lim.Types)...)
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func checkType(s Slide, types map[Kind]TypeRule) []Issue {
	rule, ok := types[s.Kind()]
	if !ok {
		return []Issue{{Code: IssueUnknownType, Page: s.Page(), Params: map[string]any{"Type": string(s.Kind()), "Page": s.Page()}}}
	}
	if !rule.Active {
		return []Issue{{Code: IssueInactiveType, Page: s.Page(), Params: map[string]any{"Type": string(s.Kind()), "Page": s.Page()}}}
	}
	if rule.CharLimit <= 0 {
		return nil
	}
	var issues []Issue
	for _, text := range limitedTexts(s) {
		if n := utf8.RuneCountInString(text); n > rule.CharLimit {
			issues = append(issues, Issue{
				Code: IssueTextTooLong,
				Page: s.Page(),
				Params: map[string]any{
					"Page":   s.Page(),
					"Length": n,
					"Limit":  rule.CharLimit,
				},
			})
		}
	}
	return issues
}

// limitedTexts returns the fields a type's character limit applies to.
// On lists the limit applies to each item.
func limitedTexts(s Slide) []string {
	switch v := s.(type) {
	case *TextSlide:
		return []string{v.Texte1}
	case *QuoteSlide:
		return []string{v.Texte1}
	case *ListSlide:
		return v.Texte[:]
	}
	return nil
}
