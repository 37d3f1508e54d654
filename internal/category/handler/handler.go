package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-inventory-service/internal/category"
	"github.com/fekuna/omnipos-inventory-service/internal/category/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/session"
	"github.com/fekuna/omnipos-inventory-service/pkg/httputil"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/render"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	formPage  = "category/form.html"
	tablePage = "category/table.html"
	listURL   = "/categories/list"
)

type CategoryHandler struct {
	uc       category.UseCase
	render   *render.Renderer
	sessions *session.Manager
	logger   logger.ZapLogger
	tracer   trace.Tracer
}

func NewCategoryHandler(uc category.UseCase, rdr *render.Renderer, sessions *session.Manager, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:       uc,
		render:   rdr,
		sessions: sessions,
		logger:   log,
		tracer:   otel.Tracer("category-http"),
	}
}

func (h *CategoryHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/create", h.createPage)
	r.Post("/create", h.createCategory)
	r.Get("/list", h.listCategories)
	r.Get("/search", h.searchCategories)
	r.Get("/update/{id}", h.updatePage)
	r.Post("/update/{id}", h.updateCategory)
	r.Post("/delete/{id}", h.deleteCategory)
	return r
}

type categoryForm struct {
	Name string
}

func (h *CategoryHandler) form(w http.ResponseWriter, r *http.Request, status int, data render.Data) {
	httputil.Page(w, r, h.render, h.logger, status, formPage, data)
}

func (h *CategoryHandler) createPage(w http.ResponseWriter, r *http.Request) {
	h.form(w, r, http.StatusOK, render.Data{"Category": categoryForm{}, "Mode": "create"})
}

func (h *CategoryHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateCategory")
	defer span.End()

	form := categoryForm{Name: r.PostFormValue("name")}
	_, err := h.uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: form.Name})
	switch {
	case err == nil:
		httputil.Redirect(w, r, listURL)
	case errors.Is(err, category.ErrNameTaken):
		h.form(w, r, http.StatusConflict, render.Data{"Category": form, "Mode": "create", "DuplicatedName": true})
	case errors.Is(err, category.ErrInvalidInput):
		h.form(w, r, http.StatusUnprocessableEntity, render.Data{"Category": form, "Mode": "create", "Error": err.Error()})
	default:
		httputil.ServerError(w, r, h.render, h.logger, err)
	}
}

func (h *CategoryHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListCategories")
	defer span.End()

	page := httputil.QueryPage(r)
	sort := httputil.SortOrder(r)
	categories, count, err := h.uc.ListCategories(ctx, &dto.CategoryFilters{
		SortOrder: sort,
		Page:      page,
		PageSize:  category.PageSize,
	})
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}

	httputil.Page(w, r, h.render, h.logger, http.StatusOK, tablePage, render.Data{
		"Categories":       categories,
		"CurrentPage":      page,
		"TotalPages":       model.TotalPages(count, category.PageSize),
		"Sort":             sort,
		"Query":            "",
		"DeleteNotAllowed": h.sessions.PopFlash(r, session.FlashDeleteNotAllowed),
	})
}

func (h *CategoryHandler) searchCategories(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SearchCategories")
	defer span.End()

	name := r.URL.Query().Get("name")
	categories, err := h.uc.SearchCategories(ctx, name)
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}

	httputil.Page(w, r, h.render, h.logger, http.StatusOK, tablePage, render.Data{
		"Categories":  categories,
		"Query":       name,
		"CurrentPage": 1,
		"TotalPages":  0,
		"Sort":        "asc",
	})
}

func (h *CategoryHandler) updatePage(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetCategory")
	defer span.End()

	id := chi.URLParam(r, "id")
	cat, err := h.uc.GetCategory(ctx, id)
	if errors.Is(err, category.ErrNotFound) {
		httputil.NotFound(w, r, h.render, h.logger, "Category not found")
		return
	}
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}

	h.form(w, r, http.StatusOK, render.Data{"Category": categoryForm{Name: cat.Name}, "ID": cat.ID, "Mode": "update"})
}

func (h *CategoryHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateCategory")
	defer span.End()

	id := chi.URLParam(r, "id")
	form := categoryForm{Name: r.PostFormValue("name")}
	_, err := h.uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: id, Name: form.Name})
	switch {
	case err == nil:
		httputil.Redirect(w, r, listURL)
	case errors.Is(err, category.ErrNameTaken):
		h.form(w, r, http.StatusConflict, render.Data{"Category": form, "ID": id, "Mode": "update", "DuplicatedName": true})
	case errors.Is(err, category.ErrInvalidInput):
		h.form(w, r, http.StatusUnprocessableEntity, render.Data{"Category": form, "ID": id, "Mode": "update", "Error": err.Error()})
	case errors.Is(err, category.ErrNotFound):
		httputil.NotFound(w, r, h.render, h.logger, "Category not found")
	default:
		httputil.ServerError(w, r, h.render, h.logger, err)
	}
}

func (h *CategoryHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteCategory")
	defer span.End()

	err := h.uc.DeleteCategory(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, category.ErrNotFound) {
		h.sessions.Flash(r, session.FlashDeleteNotAllowed)
	} else if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}
	httputil.Redirect(w, r, listURL)
}
