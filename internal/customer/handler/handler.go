package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-inventory-service/internal/customer"
	"github.com/fekuna/omnipos-inventory-service/internal/customer/dto"
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
	formPage  = "customer/form.html"
	tablePage = "customer/table.html"
	listURL   = "/customers/list"
)

type CustomerHandler struct {
	uc       customer.UseCase
	render   *render.Renderer
	sessions *session.Manager
	logger   logger.ZapLogger
	tracer   trace.Tracer
}

func NewCustomerHandler(uc customer.UseCase, rdr *render.Renderer, sessions *session.Manager, log logger.ZapLogger) *CustomerHandler {
	return &CustomerHandler{
		uc:       uc,
		render:   rdr,
		sessions: sessions,
		logger:   log,
		tracer:   otel.Tracer("customer-http"),
	}
}

func (h *CustomerHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/create", h.createPage)
	r.Post("/create", h.createCustomer)
	r.Get("/list", h.listCustomers)
	r.Get("/search", h.searchCustomers)
	r.Get("/update/{id}", h.updatePage)
	r.Post("/update/{id}", h.updateCustomer)
	r.Post("/delete/{id}", h.deleteCustomer)
	return r
}

type customerForm struct {
	Name    string
	Phone   string
	Address string
}

func parseForm(r *http.Request) customerForm {
	return customerForm{
		Name:    r.PostFormValue("name"),
		Phone:   r.PostFormValue("phone"),
		Address: r.PostFormValue("address"),
	}
}

func (h *CustomerHandler) form(w http.ResponseWriter, r *http.Request, status int, data render.Data) {
	httputil.Page(w, r, h.render, h.logger, status, formPage, data)
}

func (h *CustomerHandler) createPage(w http.ResponseWriter, r *http.Request) {
	h.form(w, r, http.StatusOK, render.Data{"Customer": customerForm{}, "Mode": "create"})
}

func (h *CustomerHandler) createCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateCustomer")
	defer span.End()

	form := parseForm(r)
	_, err := h.uc.CreateCustomer(ctx, &dto.CreateCustomerInput{Name: form.Name, Phone: form.Phone, Address: form.Address})
	switch {
	case err == nil:
		httputil.Redirect(w, r, listURL)
	case errors.Is(err, customer.ErrNameTaken):
		h.form(w, r, http.StatusConflict, render.Data{"Customer": form, "Mode": "create", "DuplicatedName": true})
	case errors.Is(err, customer.ErrInvalidInput):
		h.form(w, r, http.StatusUnprocessableEntity, render.Data{"Customer": form, "Mode": "create", "Error": err.Error()})
	default:
		httputil.ServerError(w, r, h.render, h.logger, err)
	}
}

func (h *CustomerHandler) listCustomers(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListCustomers")
	defer span.End()

	page := httputil.QueryPage(r)
	sort := httputil.SortOrder(r)
	customers, count, err := h.uc.ListCustomers(ctx, &dto.CustomerFilters{
		SortOrder: sort,
		Page:      page,
		PageSize:  customer.PageSize,
	})
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}

	httputil.Page(w, r, h.render, h.logger, http.StatusOK, tablePage, render.Data{
		"Customers":        customers,
		"CurrentPage":      page,
		"TotalPages":       model.TotalPages(count, customer.PageSize),
		"Sort":             sort,
		"Query":            "",
		"DeleteNotAllowed": h.sessions.PopFlash(r, session.FlashDeleteNotAllowed),
	})
}

func (h *CustomerHandler) searchCustomers(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SearchCustomers")
	defer span.End()

	name := r.URL.Query().Get("name")
	customers, err := h.uc.SearchCustomers(ctx, name)
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}

	httputil.Page(w, r, h.render, h.logger, http.StatusOK, tablePage, render.Data{
		"Customers":   customers,
		"Query":       name,
		"CurrentPage": 1,
		"TotalPages":  0,
		"Sort":        "asc",
	})
}

func (h *CustomerHandler) updatePage(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetCustomer")
	defer span.End()

	c, err := h.uc.GetCustomer(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, customer.ErrNotFound) {
		httputil.NotFound(w, r, h.render, h.logger, "Customer not found")
		return
	}
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}

	form := customerForm{Name: c.Name}
	if c.Phone != nil {
		form.Phone = *c.Phone
	}
	if c.Address != nil {
		form.Address = *c.Address
	}
	h.form(w, r, http.StatusOK, render.Data{"Customer": form, "ID": c.ID, "Mode": "update"})
}

func (h *CustomerHandler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateCustomer")
	defer span.End()

	id := chi.URLParam(r, "id")
	form := parseForm(r)
	_, err := h.uc.UpdateCustomer(ctx, &dto.UpdateCustomerInput{ID: id, Name: form.Name, Phone: form.Phone, Address: form.Address})
	switch {
	case err == nil:
		httputil.Redirect(w, r, listURL)
	case errors.Is(err, customer.ErrNameTaken):
		h.form(w, r, http.StatusConflict, render.Data{"Customer": form, "ID": id, "Mode": "update", "DuplicatedName": true})
	case errors.Is(err, customer.ErrInvalidInput):
		h.form(w, r, http.StatusUnprocessableEntity, render.Data{"Customer": form, "ID": id, "Mode": "update", "Error": err.Error()})
	case errors.Is(err, customer.ErrNotFound):
		httputil.NotFound(w, r, h.render, h.logger, "Customer not found")
	default:
		httputil.ServerError(w, r, h.render, h.logger, err)
	}
}

func (h *CustomerHandler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteCustomer")
	defer span.End()

	err := h.uc.DeleteCustomer(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, customer.ErrNotFound) || errors.Is(err, customer.ErrInUse) {
		h.sessions.Flash(r, session.FlashDeleteNotAllowed)
	} else if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}
	httputil.Redirect(w, r, listURL)
}
