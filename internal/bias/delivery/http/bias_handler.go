package http

import (
	"net/http"
	"strconv"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/bias/service"
	"golang-fundamental-bias/pkg/logger"

	"github.com/labstack/echo/v4"
)

// BiasHandler handles HTTP requests for the persisted bias snapshots.
type BiasHandler struct {
	queryService service.BiasQueryService
	logger       *logger.Logger
}

// NewBiasHandler creates a new BiasHandler.
func NewBiasHandler(queryService service.BiasQueryService, logger *logger.Logger) *BiasHandler {
	return &BiasHandler{queryService: queryService, logger: logger}
}

// RegisterRoutes registers the bias routes to the Echo group.
func (h *BiasHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/pairs", h.ListPairs)
	g.GET("/pairs/:base/:quote", h.GetPair)
	g.GET("/indices", h.ListIndices)
	g.GET("/currencies/:code", h.GetCurrencyHistory)
	g.GET("/events", h.ListEvents)
}

// RegisterDriverRoutes registers the market driver routes.
func (h *BiasHandler) RegisterDriverRoutes(g *echo.Group) {
	g.GET("", h.ListDrivers)
}

// ListPairs godoc
// @Summary List pair biases
// @Description Get the latest bias of every configured pair
// @Tags bias
// @Produce  json
// @Success 200 {array} entity.PairBias
// @Failure 500 {object} dto.ErrorResponse
// @Router /bias/pairs [get]
func (h *BiasHandler) ListPairs(c echo.Context) error {
	pairs, err := h.queryService.ListPairs(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list pair biases", logger.ErrorField(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, pairs)
}

// GetPair godoc
// @Summary Get a pair bias
// @Description Get the latest bias of one pair, e.g. /bias/pairs/EUR/USD
// @Tags bias
// @Produce  json
// @Param   base   path  string true "Base currency"
// @Param   quote  path  string true "Quote currency"
// @Success 200 {object} entity.PairBias
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /bias/pairs/{base}/{quote} [get]
func (h *BiasHandler) GetPair(c echo.Context) error {
	pair, err := h.queryService.GetPair(c.Request().Context(), c.Param("base"), c.Param("quote"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, pair)
}

// ListIndices godoc
// @Summary List index biases
// @Tags bias
// @Produce  json
// @Success 200 {array} entity.IndexBias
// @Failure 500 {object} dto.ErrorResponse
// @Router /bias/indices [get]
func (h *BiasHandler) ListIndices(c echo.Context) error {
	indices, err := h.queryService.ListIndices(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list index biases", logger.ErrorField(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, indices)
}

// GetCurrencyHistory godoc
// @Summary Get currency score history
// @Description Get the newest score rows of one currency
// @Tags bias
// @Produce  json
// @Param   code   path   string true  "Currency code"
// @Param   limit  query  int    false "Number of rows (default 20, max 500)"
// @Success 200 {array} entity.CurrencyScore
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /bias/currencies/{code} [get]
func (h *BiasHandler) GetCurrencyHistory(c echo.Context) error {
	limit, ok := queryLimit(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid limit"})
	}

	history, err := h.queryService.CurrencyHistory(c.Request().Context(), c.Param("code"), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, history)
}

// ListEvents godoc
// @Summary List ledger events
// @Description Get the most recently processed calendar releases
// @Tags bias
// @Produce  json
// @Param   limit  query  int  false "Number of rows (default 20, max 500)"
// @Success 200 {array} entity.ProcessedEvent
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /bias/events [get]
func (h *BiasHandler) ListEvents(c echo.Context) error {
	limit, ok := queryLimit(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid limit"})
	}

	events, err := h.queryService.RecentEvents(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list processed events", logger.ErrorField(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

// queryLimit parses the optional limit query parameter, 0 when absent.
func queryLimit(c echo.Context) (int, bool) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return limit, true
}

// ListDrivers godoc
// @Summary List market drivers
// @Tags drivers
// @Produce  json
// @Success 200 {array} entity.MarketDriverState
// @Failure 500 {object} dto.ErrorResponse
// @Router /drivers [get]
func (h *BiasHandler) ListDrivers(c echo.Context) error {
	drivers, err := h.queryService.ListDrivers(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list market drivers", logger.ErrorField(err))
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, drivers)
}
