// Package carrousel models the slides of an editorial carousel, the draft
// editor rules that keep them well ordered and the validation applied before
// a carousel is saved or exported.
package carrousel

import (
	"strings"
)

// Kind identifies a slide variant. The value is the wire "type" field.
type Kind string

const (
	KindTitle Kind = "Titre"
	KindFinal Kind = "Finale"
	KindType1 Kind = "type1"
	KindType2 Kind = "type2"
	KindType3 Kind = "type3"
	KindType4 Kind = "type4"
	KindType5 Kind = "type5"
)

// Fixed pages of the bookend slides.
const (
	TitlePage = 1
	FinalPage = 10
)

// ListItems is the number of text/prompt pairs on a type5 slide.
const ListItems = 4

// IsBookend reports whether k is the title or final kind.
func (k Kind) IsBookend() bool {
	return k == KindTitle || k == KindFinal
}

// IsReservedKey reports whether a slide type registry key designates one of
// the bookend kinds. Reserved keys cannot be toggled or deleted.
func IsReservedKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "titre", "finale":
		return true
	}
	return false
}

// Slide is one page of a carousel. The set of implementations is closed.
type Slide interface {
	Kind() Kind
	Page() int
	setPage(int)
	clone() Slide
}

type position struct {
	page int
}

func (p *position) Page() int     { return p.page }
func (p *position) setPage(n int) { p.page = n }

// TitleSlide opens the carousel.
type TitleSlide struct {
	position
	Thematique string
	Titre      string
}

func (*TitleSlide) Kind() Kind { return KindTitle }
func (s *TitleSlide) clone() Slide {
	c := *s
	return &c
}

// FinalSlide closes the carousel with the author's credentials.
type FinalSlide struct {
	position
	Expert    string
	Expertise string
	URL       string
}

func (*FinalSlide) Kind() Kind { return KindFinal }
func (s *FinalSlide) clone() Slide {
	c := *s
	return &c
}

// TextSlide carries one text and one image prompt. It backs type1, type2,
// type3 and any administrator-defined kind.
type TextSlide struct {
	position
	Type         Kind
	Texte1       string
	PromptImage1 string
}

func (s *TextSlide) Kind() Kind { return s.Type }
func (s *TextSlide) clone() Slide {
	c := *s
	return &c
}

// QuoteSlide is a type4 citation.
type QuoteSlide struct {
	position
	Texte1 string
	Auteur string
}

func (*QuoteSlide) Kind() Kind { return KindType4 }
func (s *QuoteSlide) clone() Slide {
	c := *s
	return &c
}

// ListSlide is a type5 slide with four short items and their image prompts.
type ListSlide struct {
	position
	Texte       [ListItems]string
	PromptImage [ListItems]string
}

func (*ListSlide) Kind() Kind { return KindType5 }
func (s *ListSlide) clone() Slide {
	c := *s
	return &c
}

// NewSlide returns an empty slide of the given kind at page.
func NewSlide(kind Kind, page int) Slide {
	var s Slide
	switch kind {
	case KindTitle:
		s = &TitleSlide{}
	case KindFinal:
		s = &FinalSlide{}
	case KindType4:
		s = &QuoteSlide{}
	case KindType5:
		s = &ListSlide{}
	default:
		s = &TextSlide{Type: kind}
	}
	s.setPage(page)
	return s
}

// WithPage returns a copy of s positioned at page.
func WithPage(s Slide, page int) Slide {
	c := s.clone()
	c.setPage(page)
	return c
}

// PrimaryText returns the text a kind change carries over: texte1 for
// content kinds, the first item for lists, the title for the title slide.
func PrimaryText(s Slide) string {
	switch v := s.(type) {
	case *TitleSlide:
		return v.Titre
	case *FinalSlide:
		return v.Expert
	case *TextSlide:
		return v.Texte1
	case *QuoteSlide:
		return v.Texte1
	case *ListSlide:
		return v.Texte[0]
	}
	return ""
}

// Bookends returns the title and final slides if present.
func Bookends(slides []Slide) (*TitleSlide, *FinalSlide) {
	var title *TitleSlide
	var final *FinalSlide
	for _, s := range slides {
		switch v := s.(type) {
		case *TitleSlide:
			if title == nil {
				title = v
			}
		case *FinalSlide:
			if final == nil {
				final = v
			}
		}
	}
	return title, final
}

// Intermediates returns the content slides in order.
func Intermediates(slides []Slide) []Slide {
	out := make([]Slide, 0, len(slides))
	for _, s := range slides {
		if !s.Kind().IsBookend() {
			out = append(out, s)
		}
	}
	return out
}

// Renumber puts the title first and the final slide last and assigns pages:
// title 1, final 10, content slides 2, 3, ... in their existing order.
// Extra bookends are kept in place so validation can report them.
func Renumber(slides []Slide) []Slide {
	title, final := Bookends(slides)
	out := make([]Slide, 0, len(slides))
	if title != nil {
		out = append(out, WithPage(title, TitlePage))
	}
	page := TitlePage + 1
	for _, s := range slides {
		if Slide(title) == s || Slide(final) == s {
			continue
		}
		if s.Kind().IsBookend() {
			out = append(out, s.clone())
			continue
		}
		out = append(out, WithPage(s, page))
		page++
	}
	if final != nil {
		out = append(out, WithPage(final, FinalPage))
	}
	return out
}
