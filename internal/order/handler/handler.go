package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/customer"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/order"
	"github.com/fekuna/omnipos-inventory-service/internal/order/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/session"
	"github.com/fekuna/omnipos-inventory-service/pkg/httputil"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/render"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	formPage  = "order/form.html"
	tablePage = "order/table.html"
)

type OrderHandler struct {
	uc        order.UseCase
	customers customer.UseCase
	products  product.UseCase
	render    *render.Renderer
	sessions  *session.Manager
	logger    logger.ZapLogger
	tracer    trace.Tracer
}

func NewOrderHandler(uc order.UseCase, customers customer.UseCase, products product.UseCase, rdr *render.Renderer, sessions *session.Manager, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:        uc,
		customers: customers,
		products:  products,
		render:    rdr,
		sessions:  sessions,
		logger:    log,
		tracer:    otel.Tracer("order-http"),
	}
}

func (h *OrderHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/create", h.createPage)
	r.Post("/create", h.createOrder)
	r.Get("/list", h.listOrders)
	r.Get("/find", h.findOrders)
	r.Get("/update/{id}", h.updatePage)
	r.Post("/update/{id}", h.updateOrder)
	r.Post("/delete/{id}", h.deleteOrder)
	r.Get("/print/{id}", h.printOrder)
	return r
}

func listURL(status model.OrderStatus) string {
	return "/orders/list?status=" + url.QueryEscape(string(status))
}

// statusParam reads the status query parameter, falling back to UNPAID.
func statusParam(r *http.Request) model.OrderStatus {
	status := model.OrderStatus(strings.ToUpper(r.URL.Query().Get("status")))
	if !status.Valid() {
		return model.OrderStatusUnpaid
	}
	return status
}

// lastStatus is the status of the list the operator viewed most recently.
func (h *OrderHandler) lastStatus(r *http.Request) model.OrderStatus {
	status := model.OrderStatus(h.sessions.Get(r, session.KeyOrderStatus))
	if !status.Valid() {
		return model.OrderStatusUnpaid
	}
	return status
}

type itemForm struct {
	ProductID string
	Quantity  string
}

// orderForm keeps the raw submitted values so a rejected form is redisplayed as typed.
type orderForm struct {
	CustomerID string
	Status     string
	Items      []itemForm
}

func parseForm(r *http.Request) orderForm {
	_ = r.ParseForm()
	form := orderForm{
		CustomerID: r.PostForm.Get("customer_id"),
		Status:     r.PostForm.Get("status"),
	}
	ids, quantities := r.PostForm["product_id"], r.PostForm["quantity"]
	for i, id := range ids {
		var qty string
		if i < len(quantities) {
			qty = strings.TrimSpace(quantities[i])
		}
		// Blank rows come from the empty line the form always offers.
		if id == "" && qty == "" {
			continue
		}
		form.Items = append(form.Items, itemForm{ProductID: id, Quantity: qty})
	}
	return form
}

func (f orderForm) items() ([]dto.OrderItemInput, error) {
	out := make([]dto.OrderItemInput, 0, len(f.Items))
	for i, item := range f.Items {
		qty, err := strconv.Atoi(item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("quantity on line %d must be a whole number", i+1)
		}
		out = append(out, dto.OrderItemInput{ProductID: item.ProductID, Quantity: qty})
	}
	return out, nil
}

func toForm(o *model.Order) orderForm {
	form := orderForm{CustomerID: o.CustomerID, Status: string(o.Status)}
	for _, item := range o.Items {
		form.Items = append(form.Items, itemForm{ProductID: item.ProductID, Quantity: strconv.Itoa(item.Quantity)})
	}
	return form
}

func (h *OrderHandler) form(w http.ResponseWriter, r *http.Request, status int, data render.Data) {
	customers, err := h.customers.ListAllCustomers(r.Context())
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}
	products, err := h.products.ListAllProducts(r.Context())
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}
	data["Customers"] = customers
	data["Products"] = products
	data["Statuses"] = []model.OrderStatus{model.OrderStatusUnpaid, model.OrderStatusPaid}
	httputil.Page(w, r, h.render, h.logger, status, formPage, data)
}

func (h *OrderHandler) createPage(w http.ResponseWriter, r *http.Request) {
	h.form(w, r, http.StatusOK, render.Data{"Order": orderForm{Status: string(model.OrderStatusUnpaid)}, "Mode": "create"})
}

func (h *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrder")
	defer span.End()

	form := parseForm(r)
	data := render.Data{"Order": form, "Mode": "create"}
	items, err := form.items()
	if err != nil {
		data["Error"] = err.Error()
		h.form(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	o, err := h.uc.CreateOrder(ctx, &dto.CreateOrderInput{
		CustomerID: form.CustomerID,
		Status:     model.OrderStatus(form.Status),
		Items:      items,
	})
	if err != nil {
		h.rejected(w, r, data, err)
		return
	}
	span.SetAttributes(attribute.String("order.id", o.ID))
	httputil.Redirect(w, r, listURL(model.OrderStatusUnpaid))
}

// rejected re-renders the form for business rule failures.
func (h *OrderHandler) rejected(w http.ResponseWriter, r *http.Request, data render.Data, err error) {
	switch {
	case errors.Is(err, order.ErrInsufficientStock):
		data["InsufficientStock"] = true
		data["Error"] = err.Error()
		h.form(w, r, http.StatusConflict, data)
	case errors.Is(err, order.ErrInvalidCustomer):
		data["InvalidCustomer"] = true
		h.form(w, r, http.StatusUnprocessableEntity, data)
	case errors.Is(err, order.ErrInvalidProduct), errors.Is(err, order.ErrInvalidInput):
		data["Error"] = err.Error()
		h.form(w, r, http.StatusUnprocessableEntity, data)
	case errors.Is(err, order.ErrNotFound):
		httputil.NotFound(w, r, h.render, h.logger, "Order not found")
	default:
		httputil.ServerError(w, r, h.render, h.logger, err)
	}
}

func (h *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListOrders")
	defer span.End()

	status := statusParam(r)
	h.sessions.Put(r, session.KeyOrderStatus, string(status))

	page := httputil.QueryPage(r)
	orders, count, err := h.uc.ListOrders(ctx, &dto.OrderFilters{
		Status:   status,
		Page:     page,
		PageSize: order.PageSize,
	})
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}

	httputil.Page(w, r, h.render, h.logger, http.StatusOK, tablePage, render.Data{
		"Orders":           orders,
		"Status":           status,
		"CurrentPage":      page,
		"TotalPages":       model.TotalPages(count, order.PageSize),
		"Query":            "",
		"DeleteNotAllowed": h.sessions.PopFlash(r, session.FlashDeleteNotAllowed),
	})
}

func (h *OrderHandler) findOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FindOrders")
	defer span.End()

	status := statusParam(r)
	name := r.URL.Query().Get("customer-name")
	orders, err := h.uc.FindOrders(ctx, status, name)
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}

	httputil.Page(w, r, h.render, h.logger, http.StatusOK, tablePage, render.Data{
		"Orders":      orders,
		"Status":      status,
		"Query":       name,
		"CurrentPage": 1,
		"TotalPages":  0,
	})
}

func (h *OrderHandler) updatePage(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	o, err := h.uc.GetOrder(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, order.ErrNotFound) {
		httputil.NotFound(w, r, h.render, h.logger, "Order not found")
		return
	}
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}

	h.form(w, r, http.StatusOK, render.Data{"Order": toForm(o), "ID": o.ID, "Mode": "update"})
}

func (h *OrderHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateOrder")
	defer span.End()

	id := chi.URLParam(r, "id")
	form := parseForm(r)
	data := render.Data{"Order": form, "ID": id, "Mode": "update"}
	items, err := form.items()
	if err != nil {
		data["Error"] = err.Error()
		h.form(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	_, err = h.uc.UpdateOrder(ctx, &dto.UpdateOrderInput{
		ID:         id,
		CustomerID: form.CustomerID,
		Status:     model.OrderStatus(form.Status),
		Items:      items,
	})
	if err != nil {
		h.rejected(w, r, data, err)
		return
	}
	httputil.Redirect(w, r, listURL(h.lastStatus(r)))
}

func (h *OrderHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteOrder")
	defer span.End()

	err := h.uc.DeleteOrder(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, order.ErrNotFound) {
		h.sessions.Flash(r, session.FlashDeleteNotAllowed)
	} else if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}
	httputil.Redirect(w, r, listURL(h.lastStatus(r)))
}

func (h *OrderHandler) printOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PrintOrder")
	defer span.End()

	doc, err := h.uc.PrintOrder(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, order.ErrNotFound) {
		httputil.NotFound(w, r, h.render, h.logger, "Order not found")
		return
	}
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.FormatInt(doc.Size, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Content); err != nil {
		h.logger.Warn("write order document", zap.String("filename", doc.Filename), zap.Error(err))
	}
}
