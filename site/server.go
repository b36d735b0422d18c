package site

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Lexer747/folio/content"
)

// Server maps the site's routes onto HTTP.
type Server struct {
	site   *Site
	router chi.Router
}

func NewServer(site *Site) *Server {
	s := &Server{site: site}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(s.observe)

	r.Get("/", s.handlePage(site.RenderHome))
	r.Get(BlogsPath, s.handlePage(site.RenderBlogs))
	r.Get(BlogsPath+"/{slug}", s.handlePost)
	r.Get(BlogsPath+"/{slug}/*", s.handleAsset)
	r.Get(StylePath, s.handleStyle)
	if site.metrics != nil {
		r.Handle("/metrics", site.metrics.Handler())
	}
	r.NotFound(s.handleNotFound)

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.site.metrics.ObserveRequest(route, status, elapsed)
		slog.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", status,
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handlePage(render func(w io.Writer) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := render(&buf); err != nil {
			s.fail(w, r, err)
			return
		}
		writeHTML(w, http.StatusOK, buf.Bytes())
	}
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	var buf bytes.Buffer
	if err := s.site.RenderPost(&buf, slug); err != nil {
		s.fail(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	f, info, err := s.site.store.OpenAsset(chi.URLParam(r, "slug"), chi.URLParam(r, "*"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer f.Close()
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (s *Server) handleStyle(w http.ResponseWriter, r *http.Request) {
	css, err := s.site.Stylesheet()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	if _, err := w.Write(css); err != nil {
		slog.Debug("failed to write stylesheet", "path", r.URL.Path, "error", err)
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.site.RenderNotFound(&buf); err != nil {
		slog.Error("failed to render not-found page", "error", err)
		http.NotFound(w, r)
		return
	}
	writeHTML(w, http.StatusNotFound, buf.Bytes())
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if content.IsNotFound(err) {
		s.handleNotFound(w, r)
		return
	}
	slog.Error("page generation failed", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Debug("failed to write response", "status", status, "error", err)
	}
}
