package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/ukaji3/sheetflat-go/internal/metrics"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/output"
)

// FlattenFunc runs the flattening pipeline over workbook bytes.
type FlattenFunc func(data []byte, opts sheetflat.Options) *sheetflat.Result

// AnalyzeHandler handles workbook uploads.
type AnalyzeHandler struct {
	flatten   FlattenFunc
	opts      sheetflat.Options
	metrics   *metrics.Metrics
	logger    *slog.Logger
	maxUpload int64
}

// NewAnalyzeHandler creates a handler that flattens uploads with base options.
// A nil flatten uses sheetflat.Flatten.
func NewAnalyzeHandler(flatten FlattenFunc, opts sheetflat.Options, m *metrics.Metrics, logger *slog.Logger, maxUpload int64) *AnalyzeHandler {
	if flatten == nil {
		flatten = sheetflat.Flatten
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeHandler{
		flatten:   flatten,
		opts:      opts,
		metrics:   m,
		logger:    logger.With(slog.String("handler", "analyze")),
		maxUpload: maxUpload,
	}
}

// Analyze handles POST /analyze with a multipart "file" and optional
// "instructions" field.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		// A file part sent without a filename is parsed as a plain value.
		if _, ok := r.MultipartForm.Value["file"]; ok {
			render.Render(w, r, ErrNoFileSelected())
			return
		}
		render.Render(w, r, ErrNoFile())
		return
	}
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	defer file.Close()

	if header.Filename == "" {
		render.Render(w, r, ErrNoFileSelected())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	logger := h.logger.With(
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("filename", header.Filename))

	opts := h.opts
	opts.Instructions = r.FormValue("instructions")
	opts.Logger = logger

	res := h.flatten(data, opts)
	if res == nil {
		render.Render(w, r, ErrInternal(errors.New("flatten returned no result")))
		return
	}
	if h.metrics != nil {
		h.metrics.Observe(res)
	}

	render.JSON(w, r, output.NewResponse(res))
}

// Health handles GET /healthz.
func Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
