package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/guichet-numerique/carrousel/internal/apiserver/access"
	"github.com/guichet-numerique/carrousel/internal/apiserver/database"
	"github.com/guichet-numerique/carrousel/internal/carrousel"
	"github.com/guichet-numerique/carrousel/internal/common/cnst"
	"github.com/guichet-numerique/carrousel/internal/common/dto"
	"github.com/guichet-numerique/carrousel/internal/common/errorx"
	"github.com/guichet-numerique/carrousel/internal/spreadsheet"
)

// limits reads the slide count bounds and the type registry.
func (h *Handler) limits(ctx context.Context) (carrousel.Limits, error) {
	lim := carrousel.DefaultLimits()
	cfg, err := h.db.GetSlideConfig(ctx)
	if err != nil {
		return lim, err
	}
	if cfg != nil {
		lim.MinSlides, lim.MaxSlides = cfg.MinSlides, cfg.MaxSlides
	}

	types, err := h.db.ListSlideTypes(ctx)
	if err != nil {
		return lim, err
	}
	lim.Types = make(map[carrousel.Kind]carrousel.TypeRule, len(types))
	for _, st := range types {
		if carrousel.IsReservedKey(st.TypeKey) {
			continue
		}
		lim.Types[carrousel.Kind(st.TypeKey)] = carrousel.TypeRule{CharLimit: st.CharLimit, Active: st.IsActive}
	}
	return lim, nil
}

// prepareSlides decodes, renumbers and validates a slide list and returns
// its stored form.
func (h *Handler) prepareSlides(ctx context.Context, raw []byte) (string, error) {
	slides, err := carrousel.Decode(raw)
	if err != nil {
		return "", errorx.ErrInvalidInput.WithParam("Reason", err.Error()).Wrap(err)
	}
	slides = carrousel.Renumber(slides)
	if err := h.validate(ctx, slides); err != nil {
		return "", err
	}
	out, err := carrousel.Encode(slides)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h *Handler) validate(ctx context.Context, slides []carrousel.Slide) error {
	lim, err := h.limits(ctx)
	if err != nil {
		return err
	}
	return carrousel.Validate(slides, lim)
}

// loadCarrousel fetches a carousel the current user may act on.
func (h *Handler) loadCarrousel(c *gin.Context, id uint) (*database.Carrousel, error) {
	car, err := h.db.GetCarrouselByID(c.Request.Context(), id)
	if err != nil {
		return nil, notFound(err, errorx.ErrCarrouselNotFound)
	}
	if err := access.CanAccessCarrousel(currentUser(c), car); err != nil {
		return nil, err
	}
	return car, nil
}

func (h *Handler) CreateCarrousel(c *gin.Context) {
	var req dto.CreateCarrouselRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	user := currentUser(c)

	slides, err := h.prepareSlides(ctx, req.Slides)
	if err != nil {
		h.fail(c, err)
		return
	}

	car := &database.Carrousel{
		UserID:           user.ID,
		Titre:            strings.TrimSpace(req.Titre),
		Thematique:       strings.TrimSpace(req.Thematique),
		EmailDestination: req.EmailDestination,
		Slides:           slides,
	}
	err = h.db.Transaction(ctx, func(ctx context.Context) error {
		if err := h.db.CreateCarrousel(ctx, car); err != nil {
			return err
		}
		return h.db.TouchThematique(ctx, car.Thematique)
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.audit(ctx, user, cnst.ActionCreateCarrousel, cnst.EntityCarrousel, idRef(car.ID), map[string]any{
		"titre":      car.Titre,
		"thematique": car.Thematique,
	})
	h.ok(c, dto.IDResponse{Success: true, ID: car.ID})
}

// ListCarrousels returns every carousel to administrators and their own to
// members.
func (h *Handler) ListCarrousels(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)

	var (
		list []*database.Carrousel
		err  error
	)
	if access.IsAdmin(user) {
		list, err = h.db.ListCarrousels(ctx)
	} else {
		list, err = h.db.ListCarrouselsByUser(ctx, user.ID)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, list)
}

func (h *Handler) GetCarrousel(c *gin.Context) {
	var q dto.IDQuery
	if !h.bindQuery(c, &q) {
		return
	}
	car, err := h.loadCarrousel(c, q.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, car)
}

func (h *Handler) UpdateCarrousel(c *gin.Context) {
	var req dto.UpdateCarrouselRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	car, err := h.loadCarrousel(c, req.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if req.Titre != nil {
		car.Titre = strings.TrimSpace(*req.Titre)
	}
	if req.Thematique != nil {
		car.Thematique = strings.TrimSpace(*req.Thematique)
	}
	if req.EmailDestination != nil {
		car.EmailDestination = req.EmailDestination
	}
	if req.Slides != nil {
		if car.Slides, err = h.prepareSlides(ctx, req.Slides); err != nil {
			h.fail(c, err)
			return
		}
	}

	err = h.db.Transaction(ctx, func(ctx context.Context) error {
		if err := h.db.UpdateCarrousel(ctx, car); err != nil {
			return err
		}
		return h.db.TouchThematique(ctx, car.Thematique)
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, dto.OK)
}

func (h *Handler) DeleteCarrousel(c *gin.Context) {
	var req dto.IDQuery
	if !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	car, err := h.loadCarrousel(c, req.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.db.DeleteCarrousel(ctx, car.ID); err != nil {
		h.fail(c, notFound(err, errorx.ErrCarrouselNotFound))
		return
	}

	h.audit(ctx, currentUser(c), cnst.ActionDeleteCarrousel, cnst.EntityCarrousel, idRef(car.ID), map[string]any{
		"titre": car.Titre,
	})
	h.ok(c, dto.OK)
}

// workbook checks the structure of a stored carousel and renders it.
// Slide type rules are only enforced on save, so carousels using a type
// deactivated since remain exportable.
func (h *Handler) workbook(ctx context.Context, car *database.Carrousel) (spreadsheet.File, error) {
	slides, err := carrousel.Decode([]byte(car.Slides))
	if err != nil {
		return spreadsheet.File{}, fmt.Errorf("carrousel %d: %w", car.ID, err)
	}
	slides = carrousel.Renumber(slides)
	lim, err := h.limits(ctx)
	if err != nil {
		return spreadsheet.File{}, err
	}
	lim.Types = nil
	if err := carrousel.Validate(slides, lim); err != nil {
		return spreadsheet.File{}, err
	}
	data, err := spreadsheet.Build(slides)
	if err != nil {
		return spreadsheet.File{}, err
	}
	return spreadsheet.File{Name: spreadsheet.FileName(car.Titre), Data: data}, nil
}

// ExportCarrousel downloads one carousel as a workbook.
func (h *Handler) ExportCarrousel(c *gin.Context) {
	var q dto.IDQuery
	if !h.bindQuery(c, &q) {
		return
	}
	span := h.tracer.Start(c.Request.Context(), cnst.SpanExportSpreadsheet).
		WithAttrs(attribute.Int(cnst.AttrCarrouselID, int(q.ID)))
	defer span.End()
	start := time.Now()

	car, err := h.loadCarrousel(c, q.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	file, err := h.workbook(span.Ctx, car)
	h.metrics.ExportDone("single", start, err)
	if err != nil {
		span.Fail(err)
		h.fail(c, err)
		return
	}
	attachment(c, file.Name, spreadsheet.ContentType, file.Data)
}

// ExportCarrousels downloads several carousels as a zip of workbooks.
func (h *Handler) ExportCarrousels(c *gin.Context) {
	var req dto.IDsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	span := h.tracer.Start(c.Request.Context(), cnst.SpanExportBundle).
		WithAttrs(attribute.Int(cnst.AttrCarrouselCount, len(req.IDs)))
	defer span.End()
	start := time.Now()

	files := make([]spreadsheet.File, 0, len(req.IDs))
	for _, id := range req.IDs {
		car, err := h.loadCarrousel(c, id)
		if err != nil {
			h.fail(c, err)
			return
		}
		file, err := h.workbook(span.Ctx, car)
		if err != nil {
			span.Fail(err)
			h.metrics.ExportDone("bundle", start, err)
			h.fail(c, err)
			return
		}
		files = append(files, file)
	}

	data, err := spreadsheet.Bundle(files)
	h.metrics.ExportDone("bundle", start, err)
	if err != nil {
		span.Fail(err)
		h.fail(c, err)
		return
	}
	attachment(c, "Carrousels_"+h.now().Format("20060102-150405")+".zip", spreadsheet.BundleContentType, data)
}

func attachment(c *gin.Context, name, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, contentType, data)
}
