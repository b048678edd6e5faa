package handler

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/guichet-numerique/carrousel/internal/apiserver/database"
	"github.com/guichet-numerique/carrousel/internal/carrousel"
	"github.com/guichet-numerique/carrousel/internal/spreadsheet"
)

func idQuery(id uint) url.Values {
	return url.Values{"id": {strconv.FormatUint(uint64(id), 10)}}
}

// contentSlides builds a carousel with n type1 content slides.
func contentSlides(n int) string {
	var b strings.Builder
	b.WriteString(`[{"page":1,"type":"Titre","thematique":"T","titre":"X"}`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `,{"page":%d,"type":"type1","texte1":"s%d"}`, i+1, i)
	}
	b.WriteString(`,{"page":10,"type":"Finale","expert":"E"}]`)
	return b.String()
}

func TestCarrousel_CreateListAndOwnership(t *testing.T) {
	e := newTestEnv(t)
	owner, ownerTok := e.user("owner", database.RoleMember, database.StatusApproved)
	_, otherTok := e.user("other", database.RoleMember, database.StatusApproved)
	_, adminTok := e.user("admin", database.RoleAdmin, database.StatusApproved)

	id := e.createCarrousel(ownerTok)

	w := e.get("/api/carrousels/getById", ownerTok, idQuery(id))
	require.Equal(t, http.StatusOK, w.Code)
	var got database.Carrousel
	decode(t, w, &got)
	assert.Equal(t, owner.ID, got.UserID)
	assert.Equal(t, "Bien débuter", got.Titre)

	slides, err := carrousel.Decode([]byte(got.Slides))
	require.NoError(t, err)
	require.Len(t, slides, 4)
	assert.Equal(t, carrousel.FinalPage, slides[3].Page())

	w = e.get("/api/carrousels/getById", otherTok, idQuery(id))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = e.get("/api/carrousels/getById", adminTok, idQuery(id))
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.get("/api/carrousels/getById", ownerTok, idQuery(9999))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var list []database.Carrousel
	decode(t, e.get("/api/carrousels/list", otherTok, nil), &list)
	assert.Empty(t, list)
	decode(t, e.get("/api/carrousels/list", adminTok, nil), &list)
	assert.Len(t, list, 1)

	logs, err := e.db.ListAuditLogs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "create_carrousel", logs[0].Action)
	assert.JSONEq(t, `{"titre":"Bien débuter","thematique":"Numérique responsable"}`, string(logs[0].Details))

	var names []string
	decode(t, e.get("/api/thematiques/search", ownerTok, url.Values{"searchTerm": {"num"}}), &names)
	assert.Equal(t, []string{"Numérique responsable"}, names)
}

func TestCarrousel_RenumbersOnSave(t *testing.T) {
	e := newTestEnv(t)
	_, tok := e.user("m", database.RoleMember, database.StatusApproved)

	scrambled := `[{"page":10,"type":"Finale","expert":"E"},{"page":7,"type":"type2","texte1":"b"},{"page":1,"type":"Titre","thematique":"T","titre":"X"},{"page":3,"type":"type1","texte1":"a"}]`
	w := e.post("/api/carrousels/create", tok, map[string]any{"titre": "X", "thematique": "T", "slides": scrambled})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct{ ID uint }
	decode(t, w, &resp)

	car, err := e.db.GetCarrouselByID(context.Background(), resp.ID)
	require.NoError(t, err)
	slides, err := carrousel.Decode([]byte(car.Slides))
	require.NoError(t, err)
	pages := make([]int, 0, len(slides))
	kinds := make([]carrousel.Kind, 0, len(slides))
	for _, s := range slides {
		pages = append(pages, s.Page())
		kinds = append(kinds, s.Kind())
	}
	assert.Equal(t, []int{1, 2, 3, 10}, pages)
	assert.Equal(t, []carrousel.Kind{carrousel.KindTitle, carrousel.KindType2, carrousel.KindType1, carrousel.KindFinal}, kinds)
}

func TestCarrousel_RejectsInvalidSlides(t *testing.T) {
	e := newTestEnv(t)
	_, tok := e.user("m", database.RoleMember, database.StatusApproved)
	_, adminTok := e.user("a", database.RoleAdmin, database.StatusApproved)

	tooLong := `[{"page":1,"type":"Titre","thematique":"T","titre":"X"},{"page":2,"type":"type3","texte1":"` +
		strings.Repeat("é", 91) + `"},{"page":3,"type":"type1","texte1":"ok"},{"page":10,"type":"Finale"}]`
	w := e.post("/api/carrousels/create", tok, map[string]any{"titre": "X", "thematique": "T", "slides": tooLong})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := apiError(t, w)
	var issues []carrousel.Issue
	require.NoError(t, json.Unmarshal(body.Error.Details, &issues))
	require.Len(t, issues, 1)
	assert.Equal(t, carrousel.IssueTextTooLong, issues[0].Code)
	assert.Equal(t, 2, issues[0].Page)

	tooFew := `[{"page":1,"type":"Titre","thematique":"T","titre":"X"},{"page":2,"type":"type1","texte1":"a"},{"page":10,"type":"Finale"}]`
	w = e.post("/api/carrousels/create", tok, map[string]any{"titre": "X", "thematique": "T", "slides": tooFew})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), carrousel.IssueTooFew)

	w = e.post("/api/carrousels/create", tok, map[string]any{"titre": "X", "thematique": "T", "slides": contentSlides(9)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), carrousel.IssueTooMany)

	stored, err := e.db.ListCarrousels(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)

	// a deactivated type can no longer be saved
	w = e.post("/api/slideTypes/toggle", adminTok, map[string]string{"typeKey": "type4", "isActive": "false"})
	require.Equal(t, http.StatusOK, w.Code)
	w = e.post("/api/carrousels/create", tok, map[string]any{"titre": "X", "thematique": "T", "slides": validSlides})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), carrousel.IssueInactiveType)

	w = e.post("/api/carrousels/create", tok, map[string]any{"titre": "X", "thematique": "T", "slides": "{not json"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCarrousel_UpdateAndDelete(t *testing.T) {
	e := newTestEnv(t)
	_, tok := e.user("m", database.RoleMember, database.StatusApproved)
	_, otherTok := e.user("o", database.RoleMember, database.StatusApproved)
	id := e.createCarrousel(tok)

	w := e.post("/api/carrousels/update", otherTok, map[string]any{"id": id, "titre": "Volé"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.post("/api/carrousels/update", tok, map[string]any{"id": id, "titre": "Nouveau titre", "thematique": "Sobriété"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	car, err := e.db.GetCarrouselByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Nouveau titre", car.Titre)
	assert.Equal(t, "Sobriété", car.Thematique)

	w = e.post("/api/carrousels/delete", otherTok, map[string]any{"id": id})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = e.post("/api/carrousels/delete", tok, map[string]any{"id": id})
	require.Equal(t, http.StatusOK, w.Code)
	w = e.get("/api/carrousels/getById", tok, idQuery(id))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCarrousel_Export(t *testing.T) {
	e := newTestEnv(t)
	_, tok := e.user("m", database.RoleMember, database.StatusApproved)
	id := e.createCarrousel(tok)
	second := e.createCarrousel(tok)

	w := e.get("/api/carrousels/export", tok, idQuery(id))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, spreadsheet.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Carrousel_Bien_d_buter.xlsx")
	assert.Equal(t, []byte("PK"), w.Body.Bytes()[:2])

	w = e.post("/api/carrousels/exportMany", tok, map[string]any{"ids": []uint{id, second}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, spreadsheet.BundleContentType, w.Header().Get("Content-Type"))
	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	require.NoError(t, err)
	assert.Len(t, zr.File, 2)

	w = e.post("/api/carrousels/exportMany", tok, map[string]any{"ids": []uint{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCarrousel_ExportKeepsBookendRows(t *testing.T) {
	e := newTestEnv(t)
	_, tok := e.user("m", database.RoleMember, database.StatusApproved)
	_, adminTok := e.user("a", database.RoleAdmin, database.StatusApproved)
	w := e.post("/api/slideConfigRouter/updateConfig", adminTok, map[string]int{"minSlides": 2, "maxSlides": 12})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.post("/api/carrousels/create", tok, map[string]any{"titre": "X", "thematique": "T", "slides": contentSlides(9)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct{ ID uint }
	decode(t, w, &resp)

	w = e.get("/api/carrousels/export", tok, idQuery(resp.ID))
	require.Equal(t, http.StatusOK, w.Code)
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(spreadsheet.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, spreadsheet.Pages+1)
	assert.Equal(t, []string{"1", "Titre", "T", "X"}, rows[1][:4])
	assert.Equal(t, []string{"9", "type 1", "s8"}, rows[9][:3])
	assert.Equal(t, []string{"10", "Finale", "E"}, rows[10][:3])
}

func TestCarrousel_ExportAfterTypeDeactivated(t *testing.T) {
	e := newTestEnv(t)
	_, tok := e.user("m", database.RoleMember, database.StatusApproved)
	_, adminTok := e.user("a", database.RoleAdmin, database.StatusApproved)
	id := e.createCarrousel(tok)

	w := e.post("/api/slideTypes/toggle", adminTok, map[string]string{"typeKey": "type4", "isActive": "false"})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.get("/api/carrousels/export", tok, idQuery(id))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
