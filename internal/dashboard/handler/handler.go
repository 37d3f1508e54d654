package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-inventory-service/internal/dashboard"
	"github.com/fekuna/omnipos-inventory-service/pkg/httputil"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/render"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type DashboardHandler struct {
	uc     dashboard.UseCase
	render *render.Renderer
	logger logger.ZapLogger
	tracer trace.Tracer
}

func NewDashboardHandler(uc dashboard.UseCase, rdr *render.Renderer, log logger.ZapLogger) *DashboardHandler {
	return &DashboardHandler{
		uc:     uc,
		render: rdr,
		logger: log,
		tracer: otel.Tracer("dashboard-http"),
	}
}

func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetDashboard")
	defer span.End()

	d, err := h.uc.GetDashboard(ctx)
	if err != nil {
		httputil.ServerError(w, r, h.render, h.logger, err)
		return
	}
	httputil.Page(w, r, h.render, h.logger, http.StatusOK, "dashboard/dashboard.html", render.Data{"Dashboard": d})
}
