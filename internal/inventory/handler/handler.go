package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/httputil"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/render"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var movementTypes = []string{string(model.MovementOrderPlaced), string(model.MovementOrderReturned)}

type InventoryHandler struct {
	uc     inventory.UseCase
	render *render.Renderer
	logger logger.ZapLogger
	tracer trace.Tracer
}

func NewInventoryHandler(uc inventory.UseCase, rdr *render.Renderer, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		render: rdr,
		logger: log,
		tracer: otel.Tracer("inventory-http"),
	}
}

func (h *InventoryHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/movements", h.listMovements)
	return r
}

func (h *InventoryHandler) listMovements(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListMovements")
	defer span.End()

	page := httputil.QueryPage(r)
	productID := r.URL.Query().Get("product_id")
	movementType := model.MovementType(r.URL.Query().Get("type"))
	if !movementType.Valid() {
		movementType = ""
	}

	data := render.Data{
		"ProductID": productID,
		"Type":      string(movementType),
		"Types":     movementTypes,
		"Product":   nil,
	}
	if productID != "" {
		stock, err := h.uc.GetStock(ctx, productID)
		if errors.Is(err, inventory.ErrProductNotFound) {
			httputil.NotFound(w, r, h.render, h.logger, "Product not found")
			return
		}
		if err != nil {
			httputil.ServerError(w, r, h.render, h.logger, err)
			return
		}
		data["Product"] = stock
	}

	items, count, err := h.uc.ListMovements(ctx, &dto.MovementFilters{
		ProductID:    productID,
		MovementType: string(movementType),
		Page:         page,
		PageSize:     inventory.MovementPageSize,
	})
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}

	data["Movements"] = items
	data["CurrentPage"] = page
	data["TotalPages"] = model.TotalPages(count, inventory.MovementPageSize)
	httputil.Page(w, r, h.render, h.logger, http.StatusOK, "inventory/movements.html", data)
}
