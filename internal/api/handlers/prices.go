package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajaypar09/Projects/internal/services"
)

// maxEstimateCards bounds the fan-out of a single estimate request
const maxEstimateCards = 25

type PriceHandler struct {
	refreshService *services.RefreshService
	estimator      *services.Estimator
}

func NewPriceHandler(refreshService *services.RefreshService, estimator *services.Estimator) *PriceHandler {
	return &PriceHandler{
		refreshService: refreshService,
		estimator:      estimator,
	}
}

// GetPriceStatus reports which price providers are configured
func (h *PriceHandler) GetPriceStatus(c *gin.Context) {
	providers := gin.H{}
	for _, p := range h.estimator.Providers() {
		providers[p.Name()] = gin.H{"configured": p.IsConfigured()}
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

// RefreshCardPrice fetches live prices for a stored card and stores them
func (h *PriceHandler) RefreshCardPrice(c *gin.Context) {
	id, ok := parseCardID(c)
	if !ok {
		return
	}

	result, err := h.refreshService.RefreshCard(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// EstimatePrices prices each ?card=Name#Number live across providers
func (h *PriceHandler) EstimatePrices(c *gin.Context) {
	var queries []services.CardQuery
	for _, entry := range c.QueryArray("card") {
		if q := services.ParseCardQuery(entry); q.Name != "" {
			queries = append(queries, q)
		}
	}
	if len(queries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one card parameter is required"})
		return
	}
	if len(queries) > maxEstimateCards {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many cards in one request"})
		return
	}

	estimates := h.estimator.EstimatePrices(c.Request.Context(), queries)
	summaries := make([]services.EstimateSummary, 0, len(estimates))
	for _, e := range estimates {
		summaries = append(summaries, e.Summary())
	}

	c.JSON(http.StatusOK, gin.H{"estimates": summaries})
}
