package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/kabulqd1101/kanban/pkg/httpcontext"
	boardUC "github.com/kabulqd1101/kanban/usecase/board"
)

type BoardHandler struct {
	baseHandler
	uc *boardUC.Service
}

func NewBoardHandler(uc *boardUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *BoardHandler {
	return &BoardHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Member swimlanes
// @Tags board
// @Router /api/v1/board/members [get]
func (h *BoardHandler) GetSwimlanes(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	lanes, err := h.uc.Swimlanes(stdCtx, string(ctx.QueryArgs().Peek("q")))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, lanes)
}

// @Summary Status columns
// @Tags board
// @Router /api/v1/board/status [get]
func (h *BoardHandler) GetStatusColumns(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	columns, err := h.uc.StatusColumns(stdCtx, string(ctx.QueryArgs().Peek("q")))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, columns)
}

// @Summary Analytics panel
// @Tags board
// @Router /api/v1/analytics [get]
func (h *BoardHandler) GetAnalytics(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	report, err := h.uc.Analytics(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, report)
}

// @Summary Standup walkthrough page
// @Tags board
// @Router /api/v1/standup/{index} [get]
func (h *BoardHandler) GetStandup(ctx *fasthttp.RequestCtx) {
	index := 0
	if raw, ok := ctx.UserValue("index").(string); ok {
		if parsed, err := strconv.Atoi(raw); err == nil {
			index = parsed
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	page, err := h.uc.Standup(stdCtx, index)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, page)
}
