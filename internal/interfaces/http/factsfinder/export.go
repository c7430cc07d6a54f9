package factsfinder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sngm3741/facts-finders/api/internal/factsfinder/application"
	"github.com/sngm3741/facts-finders/api/internal/factsfinder/domain"
	"github.com/sngm3741/facts-finders/api/internal/infrastructure/excel"
	"github.com/sngm3741/facts-finders/api/internal/interfaces/http/common"
)

// exportHandler は条件に一致したレコードを xlsx として返す。
// 一致 0 件は 404、生成に失敗した場合は 500。
func (h *Handler) exportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseExportFilter(r, h.location)
		if err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
		defer cancel()

		records, err := h.queries.Export(ctx, filter)
		if errors.Is(err, domain.ErrNotFound) {
			common.WriteMessage(h.logger, w, http.StatusNotFound, "No data found for given filters")
			return
		}
		if err != nil {
			h.logger.Errorw("レコード取得に失敗", "error", err)
			common.WriteMessage(h.logger, w, http.StatusInternalServerError, "Error generating Excel")
			return
		}

		var buf bytes.Buffer
		if err := h.formatter.Format(records, &buf); err != nil {
			h.logger.Errorw("Excel 生成に失敗", "error", err, "records", len(records))
			common.WriteMessage(h.logger, w, http.StatusInternalServerError, "Error generating Excel")
			return
		}

		w.Header().Set("Content-Disposition", "attachment; filename="+excel.Filename)
		w.Header().Set("Content-Type", excel.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			h.logger.Warnw("Excel 送信に失敗", "error", err)
		}
	}
}

func parseExportFilter(r *http.Request, loc *time.Location) (application.ExportFilter, error) {
	query := r.URL.Query()
	filter := application.ExportFilter{Name: strings.TrimSpace(query.Get("name"))}

	parse := func(key string) (*time.Time, error) {
		raw := strings.TrimSpace(query.Get(key))
		if raw == "" {
			return nil, nil
		}
		t, err := domain.ParseTimestamp(raw, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q", key, raw)
		}
		return &t, nil
	}

	var err error
	if filter.Start, err = parse("startDate"); err != nil {
		return application.ExportFilter{}, err
	}
	if filter.End, err = parse("endDate"); err != nil {
		return application.ExportFilter{}, err
	}
	return filter, nil
}
