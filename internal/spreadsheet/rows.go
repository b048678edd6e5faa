// Package spreadsheet renders carousels into the fixed 10-row workbook
// layout consumed by the design team, and bundles several workbooks into
// one zip archive.
package spreadsheet

import (
	"regexp"
	"strconv"

	"github.com/guichet-numerique/carrousel/internal/carrousel"
)

const (
	SheetName = "Carrousel"
	Columns   = 11
	Pages     = 10
)

// Header is the first row of every workbook.
var Header = []string{
	"Page",
	"Type de slide",
	"Thématique / Texte 1 / Expert",
	"Titre / Texte 2 / URL",
	"Texte 3",
	"Texte 4",
	"Auteur (si citation)",
	"Prompt Image 1",
	"Prompt Image 2",
	"Prompt Image 3",
	"Prompt Image 4",
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9]`)

// FileName returns the attachment name for a carousel title.
func FileName(titre string) string {
	return "Carrousel_" + unsafeName.ReplaceAllString(titre, "_") + ".xlsx"
}

// Rows lays slides out on pages 1..10, one row per page, each row Columns
// wide with the page number first. Page 1 is always the title row and page
// 10 the final row, blank when the carousel has no such slide. Pages 2..9
// take the content slides in order; the rest are dropped. Pages without a
// slide, or holding a kind the layout does not know, get an empty row.
func Rows(slides []carrousel.Slide) [][]string {
	title, final := carrousel.Bookends(slides)
	content := carrousel.Intermediates(slides)

	rows := make([][]string, 0, Pages)
	rows = append(rows, titleRow(title))
	for page := 2; page < Pages; page++ {
		var s carrousel.Slide
		if i := page - 2; i < len(content) {
			s = content[i]
		}
		rows = append(rows, row(page, s))
	}
	rows = append(rows, finalRow(final))
	return rows
}

func titleRow(s *carrousel.TitleSlide) []string {
	out := make([]string, Columns)
	out[0], out[1] = strconv.Itoa(carrousel.TitlePage), "Titre"
	if s != nil {
		out[2], out[3] = s.Thematique, s.Titre
	}
	return out
}

func finalRow(s *carrousel.FinalSlide) []string {
	out := make([]string, Columns)
	out[0], out[1] = strconv.Itoa(carrousel.FinalPage), "Finale"
	if s != nil {
		out[2], out[3], out[6] = s.Expert, s.Expertise, s.URL
	}
	return out
}

func row(page int, s carrousel.Slide) []string {
	out := make([]string, Columns)
	out[0] = strconv.Itoa(page)

	switch v := s.(type) {
	case *carrousel.TextSlide:
		label, ok := typeLabel(v.Type)
		if !ok {
			break
		}
		out[1], out[2], out[7] = label, v.Texte1, v.PromptImage1
	case *carrousel.QuoteSlide:
		out[1], out[2], out[6] = "type 4", v.Texte1, v.Auteur
	case *carrousel.ListSlide:
		out[1] = "type 5"
		copy(out[2:6], v.Texte[:])
		copy(out[7:11], v.PromptImage[:])
	}
	return out
}

func typeLabel(k carrousel.Kind) (string, bool) {
	switch k {
	case carrousel.KindType1:
		return "type 1", true
	case carrousel.KindType2:
		return "type 2", true
	case carrousel.KindType3:
		return "type 3", true
	}
	return "", false
}
