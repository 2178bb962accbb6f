// Package server serves on-demand diagram previews over HTTP.
//
// Routes:
//
//	GET /                          HTML index with a preview of every diagram
//	GET /diagrams                  JSON catalog
//	GET /diagrams/{name}.{format}  the diagram rendered as png, svg, pdf or dot
//	GET /healthz                   liveness probe
//
// Renders go through the same [pipeline.Runner] and cache as the render
// command, so a preview and a written file of the same diagram share cache
// entries.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/agenticinfraops/infraviz/pkg/catalog"
	"github.com/agenticinfraops/infraviz/pkg/errors"
	"github.com/agenticinfraops/infraviz/pkg/observability"
	"github.com/agenticinfraops/infraviz/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may finish after the
// serve context is cancelled.
const shutdownTimeout = 5 * time.Second

var contentTypes = map[string]string{
	pipeline.FormatPNG: "image/png",
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPDF: "application/pdf",
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
}

// Server is the preview HTTP handler.
type Server struct {
	router *chi.Mux
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger
}

// New creates a server rendering through runner with opts. The options must
// already be valid; New applies defaults and returns any validation error.
func New(runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	s := &Server{router: r, runner: runner, opts: opts, logger: logger}

	r.Use(middleware.RequestID)
	r.Use(s.accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n")) //nolint:errcheck // header already committed
	})
	r.Get("/diagrams", s.handleCatalog)
	r.Get("/diagrams/{file}", s.handleDiagram)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. The ready callback, if set, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	if ready != nil {
		ready(ln.Addr())
	}

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// accessLogger logs every request once it completes.
func (s *Server) accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			observability.HTTP().OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))
			s.logger.Debug("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Microsecond),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// =============================================================================
// Handlers
// =============================================================================

// diagramInfo is the JSON form of a catalog entry.
type diagramInfo struct {
	Name        string   `json:"name"`
	Family      string   `json:"family"`
	Description string   `json:"description"`
	Formats     []string `json:"formats"`
	Outputs     []string `json:"outputs"`
	Preview     string   `json:"preview"`
}

func newDiagramInfo(e catalog.Entry) diagramInfo {
	info := diagramInfo{
		Name:        e.Name,
		Family:      e.Family,
		Description: e.Description,
		Formats:     e.Formats(),
		Preview:     "/diagrams/" + e.Name + ".svg",
	}
	for _, o := range e.Outputs {
		info.Outputs = append(info.Outputs, o.File)
	}
	return info
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	entries := catalog.Entries()
	if family := r.URL.Query().Get("family"); family != "" {
		var err error
		if entries, err = catalog.Filter(family); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	resp := struct {
		Diagrams []diagramInfo `json:"diagrams"`
	}{Diagrams: make([]diagramInfo, len(entries))}
	for i, e := range entries {
		resp.Diagrams[i] = newDiagramInfo(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	ext := path.Ext(file)
	name, format := strings.TrimSuffix(file, ext), strings.TrimPrefix(ext, ".")
	if format == "" {
		format = pipeline.FormatSVG
	}

	if err := errors.ValidateDiagramName(name); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := catalog.Lookup(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dpi, err := s.resolveDPI(r, e, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	src, err := e.Build(s.opts.Params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, hit, err := s.runner.Artifact(r.Context(), src, format, dpi, s.opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache")
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Write(data) //nolint:errcheck // header already committed
}

// resolveDPI picks the raster resolution of a preview: the dpi query
// parameter, else the first published output of that format, else web.
// Requested resolutions are capped at the print resolution.
func (s *Server) resolveDPI(r *http.Request, e catalog.Entry, format string) (float64, error) {
	if format != pipeline.FormatPNG {
		return 0, nil
	}
	if q := r.URL.Query().Get("dpi"); q != "" {
		dpi, err := strconv.ParseFloat(q, 64)
		if err != nil {
			return 0, errors.New(errors.ErrCodeInvalidInput, "invalid dpi %q", q)
		}
		if err := errors.ValidateDPI(dpi); err != nil {
			return 0, err
		}
		if limit := s.opts.Resolutions.Print; dpi > limit {
			return 0, errors.New(errors.ErrCodeInvalidInput, "dpi %g exceeds the preview limit of %g", dpi, limit)
		}
		return dpi, nil
	}
	for _, o := range e.Outputs {
		if o.Format == format {
			return o.DPI(s.opts.Resolutions), nil
		}
	}
	return s.opts.Resolutions.Web, nil
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>infraviz</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; background: #f3f2f1; color: #201f1e; }
h2 { margin-top: 2.5rem; text-transform: capitalize; }
.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(360px, 1fr)); gap: 1.5rem; }
.card { background: #fff; border-radius: 8px; padding: 1rem; box-shadow: 0 1px 3px rgba(0,0,0,.15); }
.card img { width: 100%; background: #fff; }
.card code { color: #0078d4; }
.links a { margin-right: .75rem; }
</style>
</head>
<body>
<h1>infraviz</h1>
{{range .}}<h2>{{.Family}}</h2>
<div class="grid">
{{range .Diagrams}}<div class="card">
<p><code>{{.Name}}</code> {{.Description}}</p>
<a href="{{.Preview}}"><img src="{{.Preview}}" alt="{{.Name}}" loading="lazy"></a>
<p class="links">{{$name := .Name}}{{range .Formats}}<a href="/diagrams/{{$name}}.{{.}}">{{.}}</a>{{end}}</p>
</div>
{{end}}</div>
{{end}}</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	type family struct {
		Family   string
		Diagrams []diagramInfo
	}
	var families []family
	for _, name := range catalog.Families {
		entries, err := catalog.Filter(name)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		f := family{Family: name}
		for _, e := range entries {
			f.Diagrams = append(f.Diagrams, newDiagramInfo(e))
		}
		families = append(families, f)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, families); err != nil {
		s.logger.Warn("render index", "error", err)
	}
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError maps err to a status code and writes it as JSON.
// Server-side failures are logged; client errors are not.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err,
			"request_id", middleware.GetReqID(r.Context()))
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(code),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v) //nolint:errcheck // header already committed
}
