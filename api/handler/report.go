package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/kabulqd1101/kanban/api/transport"
	"github.com/kabulqd1101/kanban/domain"
	"github.com/kabulqd1101/kanban/pkg/httpcontext"
	reportUC "github.com/kabulqd1101/kanban/usecase/report"
)

type ReportHandler struct {
	baseHandler
	uc *reportUC.Service
}

func NewReportHandler(uc *reportUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Generate the weekly team report
// @Tags reports
// @Router /api/v1/reports/weekly [post]
func (h *ReportHandler) GenerateWeekly(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	content, err := h.uc.WeeklyReport(stdCtx, h.actingUser(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.ReportResponse{Content: content})
}

// @Summary Analyze a task's plan/actual gap
// @Tags reports
// @Router /api/v1/tasks/{id}/analysis [post]
func (h *ReportHandler) AnalyzeGap(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing task id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	content, err := h.uc.AnalyzeGap(stdCtx, id, h.actingUser(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.ReportResponse{Content: content})
}

// @Summary List archived reports
// @Tags reports
// @Router /api/v1/reports [get]
func (h *ReportHandler) ListArchive(ctx *fasthttp.RequestCtx) {
	limit := 0
	if raw := string(ctx.QueryArgs().Peek("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	reports, err := h.uc.ArchivedReports(limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, reports)
}

// @Summary Get one archived report
// @Tags reports
// @Router /api/v1/reports/{id} [get]
func (h *ReportHandler) GetArchived(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing report id", nil))
		return
	}

	report, err := h.uc.ArchivedReport(id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, report)
}
