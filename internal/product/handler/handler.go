package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/category"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/product/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/session"
	"github.com/fekuna/omnipos-inventory-service/pkg/httputil"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/render"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	formPage  = "product/form.html"
	tablePage = "product/table.html"
	listURL   = "/products/list"
)

type ProductHandler struct {
	uc         product.UseCase
	categories category.UseCase
	render     *render.Renderer
	sessions   *session.Manager
	logger     logger.ZapLogger
	tracer     trace.Tracer
}

func NewProductHandler(uc product.UseCase, categories category.UseCase, rdr *render.Renderer, sessions *session.Manager, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:         uc,
		categories: categories,
		render:     rdr,
		sessions:   sessions,
		logger:     log,
		tracer:     otel.Tracer("product-http"),
	}
}

func (h *ProductHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/create", h.createPage)
	r.Post("/create", h.createProduct)
	r.Get("/list", h.listProducts)
	r.Get("/search", h.searchProducts)
	r.Get("/update/{id}", h.updatePage)
	r.Post("/update/{id}", h.updateProduct)
	r.Post("/delete/{id}", h.deleteProduct)
	return r
}

// productForm keeps the raw submitted values so a rejected form is redisplayed as typed.
type productForm struct {
	Name       string
	CategoryID string
	Quantity   string
	Price      string
}

func parseForm(r *http.Request) productForm {
	return productForm{
		Name:       r.PostFormValue("name"),
		CategoryID: r.PostFormValue("category_id"),
		Quantity:   strings.TrimSpace(r.PostFormValue("quantity")),
		Price:      strings.TrimSpace(r.PostFormValue("price")),
	}
}

func (f productForm) numbers() (int, decimal.Decimal, error) {
	qty, err := strconv.Atoi(f.Quantity)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("quantity must be a whole number")
	}
	price, err := decimal.NewFromString(f.Price)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("price must be a number")
	}
	return qty, price, nil
}

func (h *ProductHandler) form(w http.ResponseWriter, r *http.Request, status int, data render.Data) {
	categories, err := h.categories.ListAllCategories(r.Context())
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}
	data["Categories"] = categories
	httputil.Page(w, r, h.render, h.logger, status, formPage, data)
}

func (h *ProductHandler) createPage(w http.ResponseWriter, r *http.Request) {
	h.form(w, r, http.StatusOK, render.Data{"Product": productForm{Quantity: "0"}, "Mode": "create"})
}

func (h *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateProduct")
	defer span.End()

	form := parseForm(r)
	data := render.Data{"Product": form, "Mode": "create"}
	qty, price, err := form.numbers()
	if err != nil {
		data["Error"] = err.Error()
		h.form(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	_, err = h.uc.CreateProduct(ctx, &dto.CreateProductInput{
		CategoryID: form.CategoryID,
		Name:       form.Name,
		Quantity:   qty,
		Price:      price,
	})
	h.afterSave(w, r, data, err)
}

func (h *ProductHandler) afterSave(w http.ResponseWriter, r *http.Request, data render.Data, err error) {
	switch {
	case err == nil:
		httputil.Redirect(w, r, listURL)
	case errors.Is(err, product.ErrNameTaken):
		data["DuplicatedName"] = true
		h.form(w, r, http.StatusConflict, data)
	case errors.Is(err, product.ErrInvalidInput), errors.Is(err, product.ErrInvalidCategory):
		data["Error"] = err.Error()
		h.form(w, r, http.StatusUnprocessableEntity, data)
	case errors.Is(err, product.ErrNotFound):
		httputil.NotFound(w, r, h.render, h.logger, "Product not found")
	default:
		httputil.ServerError(w, r, h.render, h.logger, err)
	}
}

func (h *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListProducts")
	defer span.End()

	page := httputil.QueryPage(r)
	sort := httputil.SortOrder(r)
	products, count, err := h.uc.ListProducts(ctx, &dto.ProductFilters{
		SortOrder: sort,
		Page:      page,
		PageSize:  product.PageSize,
	})
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}

	httputil.Page(w, r, h.render, h.logger, http.StatusOK, tablePage, render.Data{
		"Products":         products,
		"CurrentPage":      page,
		"TotalPages":       model.TotalPages(count, product.PageSize),
		"Sort":             sort,
		"Query":            "",
		"DeleteNotAllowed": h.sessions.PopFlash(r, session.FlashDeleteNotAllowed),
	})
}

func (h *ProductHandler) searchProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SearchProducts")
	defer span.End()

	name := r.URL.Query().Get("name")
	products, err := h.uc.SearchProducts(ctx, name)
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}

	httputil.Page(w, r, h.render, h.logger, http.StatusOK, tablePage, render.Data{
		"Products":    products,
		"Query":       name,
		"CurrentPage": 1,
		"TotalPages":  0,
		"Sort":        "asc",
	})
}

func (h *ProductHandler) updatePage(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetProduct")
	defer span.End()

	p, err := h.uc.GetProduct(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, product.ErrNotFound) {
		httputil.NotFound(w, r, h.render, h.logger, "Product not found")
		return
	}
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}

	form := productForm{
		Name:     p.Name,
		Quantity: strconv.Itoa(p.Quantity),
		Price:    p.Price.StringFixed(2),
	}
	if p.CategoryID != nil {
		form.CategoryID = *p.CategoryID
	}
	h.form(w, r, http.StatusOK, render.Data{"Product": form, "ID": p.ID, "Mode": "update"})
}

func (h *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateProduct")
	defer span.End()

	id := chi.URLParam(r, "id")
	form := parseForm(r)
	data := render.Data{"Product": form, "ID": id, "Mode": "update"}
	qty, price, err := form.numbers()
	if err != nil {
		data["Error"] = err.Error()
		h.form(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	_, err = h.uc.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID:         id,
		CategoryID: form.CategoryID,
		Name:       form.Name,
		Quantity:   qty,
		Price:      price,
	})
	h.afterSave(w, r, data, err)
}

func (h *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteProduct")
	defer span.End()

	err := h.uc.DeleteProduct(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, product.ErrNotFound) || errors.Is(err, product.ErrInUse) {
		h.sessions.Flash(r, session.FlashDeleteNotAllowed)
	} else if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}
	httputil.Redirect(w, r, listURL)
}
