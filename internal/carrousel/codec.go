package carrousel

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMissingType = errors.New("slide type is required")

// wireSlide is the flat JSON shape stored in the database and exchanged with
// clients. Only the fields a variant declares are emitted.
type wireSlide struct {
	Page         int     `json:"page"`
	Type         Kind    `json:"type"`
	Thematique   *string `json:"thematique,omitempty"`
	Titre        *string `json:"titre,omitempty"`
	Expert       *string `json:"expert,omitempty"`
	Expertise    *string `json:"expertise,omitempty"`
	URL          *string `json:"url,omitempty"`
	Texte1       *string `json:"texte1,omitempty"`
	Texte2       *string `json:"texte2,omitempty"`
	Texte3       *string `json:"texte3,omitempty"`
	Texte4       *string `json:"texte4,omitempty"`
	Auteur       *string `json:"auteur,omitempty"`
	PromptImage1 *string `json:"promptImage1,omitempty"`
	PromptImage2 *string `json:"promptImage2,omitempty"`
	PromptImage3 *string `json:"promptImage3,omitempty"`
	PromptImage4 *string `json:"promptImage4,omitempty"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ref(s string) *string { return &s }

func (w *wireSlide) slide() (Slide, error) {
	if w.Type == "" {
		return nil, fmt.Errorf("page %d: %w", w.Page, ErrMissingType)
	}
	var s Slide
	switch w.Type {
	case KindTitle:
		s = &TitleSlide{Thematique: str(w.Thematique), Titre: str(w.Titre)}
	case KindFinal:
		s = &FinalSlide{Expert: str(w.Expert), Expertise: str(w.Expertise), URL: str(w.URL)}
	case KindType4:
		s = &QuoteSlide{Texte1: str(w.Texte1), Auteur: str(w.Auteur)}
	case KindType5:
		s = &ListSlide{
			Texte:       [ListItems]string{str(w.Texte1), str(w.Texte2), str(w.Texte3), str(w.Texte4)},
			PromptImage: [ListItems]string{str(w.PromptImage1), str(w.PromptImage2), str(w.PromptImage3), str(w.PromptImage4)},
		}
	default:
		s = &TextSlide{Type: w.Type, Texte1: str(w.Texte1), PromptImage1: str(w.PromptImage1)}
	}
	s.setPage(w.Page)
	return s, nil
}

// field returns the slot holding the named wire field, nil if the name is
// unknown. The slot itself is nil when the variant does not declare it.
func (w *wireSlide) field(name string) **string {
	switch name {
	case "thematique":
		return &w.Thematique
	case "titre":
		return &w.Titre
	case "expert":
		return &w.Expert
	case "expertise":
		return &w.Expertise
	case "url":
		return &w.URL
	case "texte1":
		return &w.Texte1
	case "texte2":
		return &w.Texte2
	case "texte3":
		return &w.Texte3
	case "texte4":
		return &w.Texte4
	case "auteur":
		return &w.Auteur
	case "promptImage1":
		return &w.PromptImage1
	case "promptImage2":
		return &w.PromptImage2
	case "promptImage3":
		return &w.PromptImage3
	case "promptImage4":
		return &w.PromptImage4
	}
	return nil
}

func toWire(s Slide) wireSlide {
	w := wireSlide{Page: s.Page(), Type: s.Kind()}
	switch v := s.(type) {
	case *TitleSlide:
		w.Thematique, w.Titre = ref(v.Thematique), ref(v.Titre)
	case *FinalSlide:
		w.Expert, w.Expertise, w.URL = ref(v.Expert), ref(v.Expertise), ref(v.URL)
	case *TextSlide:
		w.Texte1, w.PromptImage1 = ref(v.Texte1), ref(v.PromptImage1)
	case *QuoteSlide:
		w.Texte1, w.Auteur = ref(v.Texte1), ref(v.Auteur)
	case *ListSlide:
		w.Texte1, w.Texte2, w.Texte3, w.Texte4 = ref(v.Texte[0]), ref(v.Texte[1]), ref(v.Texte[2]), ref(v.Texte[3])
		w.PromptImage1, w.PromptImage2 = ref(v.PromptImage[0]), ref(v.PromptImage[1])
		w.PromptImage3, w.PromptImage4 = ref(v.PromptImage[2]), ref(v.PromptImage[3])
	}
	return w
}

// Decode parses the stored JSON array of slides.
func Decode(data []byte) ([]Slide, error) {
	var raw []wireSlide
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode slides: %w", err)
	}
	slides := make([]Slide, 0, len(raw))
	for i := range raw {
		s, err := raw[i].slide()
		if err != nil {
			return nil, err
		}
		slides = append(slides, s)
	}
	return slides, nil
}

// Encode renders slides in the stored JSON form.
func Encode(slides []Slide) ([]byte, error) {
	raw := make([]wireSlide, 0, len(slides))
	for _, s := range slides {
		raw = append(raw, toWire(s))
	}
	return json.Marshal(raw)
}
