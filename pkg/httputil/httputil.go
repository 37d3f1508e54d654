package httputil

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/render"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// QueryInt reads a positive integer query parameter, falling back to def.
func QueryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return def
	}
	return v
}

// MaxPage bounds page numbers so the computed OFFSET stays in range.
const MaxPage = 100000

// QueryPage reads the "page" query parameter, clamped to [1, MaxPage].
func QueryPage(r *http.Request) int {
	page := QueryInt(r, "page", 1)
	if page > MaxPage {
		return MaxPage
	}
	return page
}

// SortOrder normalises the "sort" query parameter to asc or desc.
func SortOrder(r *http.Request) string {
	if r.URL.Query().Get("sort") == "desc" {
		return "desc"
	}
	return "asc"
}

func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// Page renders a template and falls back to a plain 500 when rendering itself fails.
func Page(w http.ResponseWriter, r *http.Request, rdr *render.Renderer, log logger.ZapLogger, status int, page string, data render.Data) {
	if err := rdr.HTML(w, status, page, data); err != nil {
		log.Error("render failed",
			zap.String("page", page),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func NotFound(w http.ResponseWriter, r *http.Request, rdr *render.Renderer, log logger.ZapLogger, message string) {
	Page(w, r, rdr, log, http.StatusNotFound, "error.html", render.Data{
		"Status":  http.StatusNotFound,
		"Message": message,
	})
}

func ServerError(w http.ResponseWriter, r *http.Request, rdr *render.Renderer, log logger.ZapLogger, err error) {
	log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	Page(w, r, rdr, log, http.StatusInternalServerError, "error.html", render.Data{
		"Status":  http.StatusInternalServerError,
		"Message": "Something went wrong. Please try again.",
	})
}
