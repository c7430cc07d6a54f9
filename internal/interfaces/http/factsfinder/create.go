package factsfinder

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sngm3741/facts-finders/api/internal/factsfinder/application"
	"github.com/sngm3741/facts-finders/api/internal/factsfinder/domain"
	"github.com/sngm3741/facts-finders/api/internal/interfaces/http/common"
)

type validationResponse struct {
	Message string                  `json:"message"`
	Errors  domain.ValidationErrors `json:"errors"`
}

// createHandler は提出内容を受け取り 1 件のレコードとして保存する。
// 業務ルールの検証はクライアントの責務で、サーバーは日付と数値の変換のみ行う。
func (h *Handler) createHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var draft domain.Draft
		decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxRecordRequestBody))
		if err := decoder.Decode(&draft); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
		defer cancel()

		record, err := h.commands.Create(ctx, draft)
		if err != nil {
			var violations domain.ValidationErrors
			switch {
			case errors.As(err, &violations):
				common.WriteJSON(h.logger, w, http.StatusBadRequest, validationResponse{
					Message: violations.First().Message,
					Errors:  violations,
				})
			case application.IsClientError(err):
				common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			default:
				h.logger.Errorw("レコード保存に失敗", "error", err)
				common.WriteMessage(h.logger, w, http.StatusInternalServerError, "Server error")
			}
			return
		}

		h.logger.Infow("レコードを保存しました", "id", record.ID, "name", record.Name)
		common.WriteMessage(h.logger, w, http.StatusCreated, "Record saved successfully")
	}
}
