package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"PairSight/internal/domain/models"
	domrepo "PairSight/internal/domain/repository"
	"PairSight/internal/usecase"
	xhttp "PairSight/pkg/http"
	xlogger "PairSight/pkg/logger"

	"github.com/labstack/echo/v4"
)

const dispatchTimeout = 10 * time.Second

// AnalyzeEchoHandler exposes the evaluation engine over HTTP.
type AnalyzeEchoHandler struct {
	logger     *xlogger.Logger
	eval       *usecase.Evaluator
	dispatcher *usecase.AlertDispatcher
}

func NewAnalyzeEchoHandler(logger *xlogger.Logger, eval *usecase.Evaluator, dispatcher *usecase.AlertDispatcher) *AnalyzeEchoHandler {
	return &AnalyzeEchoHandler{logger: logger, eval: eval, dispatcher: dispatcher}
}

func (h *AnalyzeEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/analyze", h.Analyze)
	e.GET("/health", h.Health)
}

// Analyze runs one evaluation and returns the flat signal payload. Alert and
// stream delivery run detached so response latency stays independent of
// Telegram or Kafka health.
func (h *AnalyzeEchoHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	pair := strings.ToUpper(req.Pair)
	tf := domrepo.NormalizeTimeframe(req.Timeframe)

	result := h.eval.Evaluate(c.Request().Context(), pair, tf)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		h.dispatcher.Dispatch(ctx, pair, tf, result)
	}()

	return xhttp.RawResponse(c, result)
}

// Health reports liveness.
func (h *AnalyzeEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
