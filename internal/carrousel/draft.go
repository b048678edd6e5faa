package carrousel

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrTooManySlides = errors.New("maximum number of content slides reached")
	ErrBookendSlide  = errors.New("title and final slides cannot be removed or retyped")
	ErrBookendKind   = errors.New("title and final kinds cannot be added")
	ErrSlideIndex    = errors.New("slide index out of range")
	ErrKindMismatch  = errors.New("replacement slide must keep the same kind")
	ErrUnknownField  = errors.New("field not declared by this slide kind")
)

// Draft is an editable carousel. Every mutation leaves the slides renumbered
// with the title first and the final slide last.
type Draft struct {
	slides    []Slide
	maxSlides int
}

// NewDraft starts a carousel with empty bookends, the final slide prefilled
// from the author's profile. maxSlides <= 0 leaves the content unbounded.
func NewDraft(expert, expertise string, maxSlides int) *Draft {
	d := &Draft{maxSlides: maxSlides}
	d.Reset(expert, expertise)
	return d
}

// LoadDraft resumes editing an existing slide list.
func LoadDraft(slides []Slide, maxSlides int) *Draft {
	return &Draft{slides: Renumber(slides), maxSlides: maxSlides}
}

// Reset discards every content slide and clears the bookends.
func (d *Draft) Reset(expert, expertise string) {
	d.slides = []Slide{
		NewSlide(KindTitle, TitlePage),
		&FinalSlide{position: position{page: FinalPage}, Expert: expert, Expertise: expertise},
	}
}

// Slides returns a copy of the current slides.
func (d *Draft) Slides() []Slide {
	out := make([]Slide, len(d.slides))
	for i, s := range d.slides {
		out[i] = s.clone()
	}
	return out
}

func (d *Draft) Len() int { return len(d.slides) }

// AddSlide appends an empty content slide before the final slide.
func (d *Draft) AddSlide(kind Kind) error {
	if kind.IsBookend() {
		return ErrBookendKind
	}
	if d.maxSlides > 0 && len(Intermediates(d.slides)) >= d.maxSlides {
		return ErrTooManySlides
	}
	at := len(d.slides)
	if at > 0 && d.slides[at-1].Kind() == KindFinal {
		at--
	}
	d.slides = Renumber(slices.Insert(d.slides, at, NewSlide(kind, 0)))
	return nil
}

// RemoveSlide deletes the content slide at index.
func (d *Draft) RemoveSlide(index int) error {
	s, err := d.at(index)
	if err != nil {
		return err
	}
	if s.Kind().IsBookend() {
		return ErrBookendSlide
	}
	d.slides = Renumber(slices.Delete(d.slides, index, index+1))
	return nil
}

// ChangeType replaces the slide at index with an empty slide of kind,
// carrying its primary text over.
func (d *Draft) ChangeType(index int, kind Kind) error {
	s, err := d.at(index)
	if err != nil {
		return err
	}
	if s.Kind().IsBookend() {
		return ErrBookendSlide
	}
	if kind.IsBookend() {
		return ErrBookendKind
	}
	next := NewSlide(kind, s.Page())
	text := PrimaryText(s)
	switch v := next.(type) {
	case *TextSlide:
		v.Texte1 = text
	case *QuoteSlide:
		v.Texte1 = text
	case *ListSlide:
		v.Texte[0] = text
	}
	d.slides[index] = next
	d.slides = Renumber(d.slides)
	return nil
}

// Update replaces the slide at index with s, which must have the same kind.
func (d *Draft) Update(index int, s Slide) error {
	cur, err := d.at(index)
	if err != nil {
		return err
	}
	if cur.Kind() != s.Kind() {
		return ErrKindMismatch
	}
	d.slides[index] = WithPage(s, cur.Page())
	d.slides = Renumber(d.slides)
	return nil
}

// SetField assigns one wire field, such as "texte2" or "auteur", on the
// slide at index. Fields the slide kind does not declare are refused.
func (d *Draft) SetField(index int, field, value string) error {
	cur, err := d.at(index)
	if err != nil {
		return err
	}
	w := toWire(cur)
	target := w.field(field)
	if target == nil || *target == nil {
		return fmt.Errorf("%s on %s: %w", field, cur.Kind(), ErrUnknownField)
	}
	**target = value
	next, err := w.slide()
	if err != nil {
		return err
	}
	d.slides[index] = next
	return nil
}

func (d *Draft) at(index int) (Slide, error) {
	if index < 0 || index >= len(d.slides) {
		return nil, ErrSlideIndex
	}
	return d.slides[index], nil
}
