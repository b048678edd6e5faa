package spreadsheet

import (
	"fmt"
	"testing"

	"github.com/guichet-numerique/carrousel/internal/carrousel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSlides(t *testing.T) []carrousel.Slide {
	t.Helper()
	slides, err := carrousel.Decode([]byte(`[
	 {"page":1,"type":"Titre","thematique":"Numérique","titre":"Bien débuter !"},
	 {"page":2,"type":"type1","texte1":"Intro","promptImage1":"a laptop"},
	 {"page":3,"type":"type4","texte1":"Citation","auteur":"Anonyme"},
	 {"page":4,"type":"type5","texte1":"A","texte2":"B","texte3":"C","texte4":"D","promptImage1":"p1"},
	 {"page":5,"type":"typeX","texte1":"custom"},
	 {"page":10,"type":"Finale","expert":"Jeanne","expertise":"UX","url":"https://example.org"}
	]`))
	require.NoError(t, err)
	return slides
}

func TestRows_Layout(t *testing.T) {
	rows := Rows(sampleSlides(t))
	require.Len(t, rows, Pages)
	for _, r := range rows {
		assert.Len(t, r, Columns)
	}

	assert.Equal(t, []string{"1", "Titre", "Numérique", "Bien débuter !", "", "", "", "", "", "", ""}, rows[0])
	assert.Equal(t, []string{"2", "type 1", "Intro", "", "", "", "", "a laptop", "", "", ""}, rows[1])
	assert.Equal(t, []string{"3", "type 4", "Citation", "", "", "", "Anonyme", "", "", "", ""}, rows[2])
	assert.Equal(t, []string{"4", "type 5", "A", "B", "C", "D", "", "p1", "", "", ""}, rows[3])
	// unknown kind and missing pages are blank
	assert.Equal(t, []string{"5", "", "", "", "", "", "", "", "", "", ""}, rows[4])
	assert.Equal(t, []string{"9", "", "", "", "", "", "", "", "", "", ""}, rows[8])
	assert.Equal(t, []string{"10", "Finale", "Jeanne", "UX", "", "", "https://example.org", "", "", "", ""}, rows[9])
}

func TestRows_Deterministic(t *testing.T) {
	slides := sampleSlides(t)
	assert.Equal(t, Rows(slides), Rows(slides))
}

func TestRows_TypeLabels(t *testing.T) {
	slides := []carrousel.Slide{
		carrousel.NewSlide(carrousel.KindType2, 2),
		carrousel.NewSlide(carrousel.KindType3, 3),
	}
	rows := Rows(slides)
	assert.Equal(t, "type 2", rows[1][1])
	assert.Equal(t, "type 3", rows[2][1])
}

func TestRows_BookendsWithoutSlides(t *testing.T) {
	rows := Rows([]carrousel.Slide{carrousel.NewSlide(carrousel.KindType1, 2)})
	assert.Equal(t, []string{"1", "Titre", "", "", "", "", "", "", "", "", ""}, rows[0])
	assert.Equal(t, []string{"10", "Finale", "", "", "", "", "", "", "", "", ""}, rows[9])
	assert.Equal(t, "type 1", rows[1][1])
}

func TestRows_ManyContentSlides(t *testing.T) {
	raw := `[{"type":"Titre","thematique":"T","titre":"X"}`
	for i := 1; i <= 12; i++ {
		raw += fmt.Sprintf(`,{"type":"type1","texte1":"s%d"}`, i)
	}
	raw += `,{"type":"Finale","expert":"E"}]`
	slides, err := carrousel.Decode([]byte(raw))
	require.NoError(t, err)
	slides = carrousel.Renumber(slides)

	rows := Rows(slides)
	require.Len(t, rows, Pages)
	assert.Equal(t, "Titre", rows[0][1])
	for page := 2; page < Pages; page++ {
		assert.Equal(t, fmt.Sprintf("s%d", page-1), rows[page-1][2])
	}
	assert.Equal(t, []string{"10", "Finale", "E", "", "", "", "", "", "", "", ""}, rows[9])
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Carrousel_Bien_d_buter__.xlsx", FileName("Bien débuter !"))
	assert.Equal(t, "Carrousel_A_B.xlsx", FileName("A/B"))
	assert.Equal(t, "Carrousel_.xlsx", FileName(""))
}
