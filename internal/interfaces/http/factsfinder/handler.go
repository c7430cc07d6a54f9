package factsfinder

import (
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sngm3741/facts-finders/api/internal/factsfinder/application"
)

// Handler wires the Facts Finder HTTP endpoints to application services.
type Handler struct {
	logger         *zap.SugaredLogger
	commands       application.RecordCommandService
	queries        application.RecordQueryService
	formatter      application.WorkbookFormatter
	location       *time.Location
	requestTimeout time.Duration
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger         *zap.SugaredLogger
	Commands       application.RecordCommandService
	Queries        application.RecordQueryService
	Formatter      application.WorkbookFormatter
	Location       *time.Location
	RequestTimeout time.Duration
}

// NewHandler constructs the handler set.
func NewHandler(cfg Config) *Handler {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{
		logger:         logger,
		commands:       cfg.Commands,
		queries:        cfg.Queries,
		formatter:      cfg.Formatter,
		location:       loc,
		requestTimeout: timeout,
	}
}

// Register mounts the routes under the caller's prefix (normally /api).
func (h *Handler) Register(r chi.Router) {
	r.Post("/factsfinders", h.createHandler())
	r.Get("/factsfinders/excel", h.exportHandler())
}
