package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ajaypar09/Projects/internal/database"
	"github.com/ajaypar09/Projects/internal/models"
	"github.com/ajaypar09/Projects/internal/services"
)

type CardHandler struct {
	cardService *services.CardService
	store       *database.Store
}

func NewCardHandler(cardService *services.CardService, store *database.Store) *CardHandler {
	return &CardHandler{
		cardService: cardService,
		store:       store,
	}
}

// SearchCards returns stored cards matching serial_number and/or name
func (h *CardHandler) SearchCards(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	results, err := h.cardService.SearchCards(c.Request.Context(),
		strings.TrimSpace(c.Query("serial_number")),
		strings.TrimSpace(c.Query("name")),
		limit,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cards":       results,
		"total_count": len(results),
	})
}

// LookupCard resolves the best stored match for the hint
func (h *CardHandler) LookupCard(c *gin.Context) {
	hint := models.CardHint{
		SerialNumber: strings.TrimSpace(c.Query("serial_number")),
		Name:         strings.TrimSpace(c.Query("name")),
	}
	if hint.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "serial_number or name is required"})
		return
	}
	salesLimit, ok := queryInt(c, "sales_limit")
	if !ok {
		return
	}

	result, err := h.cardService.LookupCard(c.Request.Context(), hint, salesLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no matching card"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CardHandler) GetCard(c *gin.Context) {
	id, ok := parseCardID(c)
	if !ok {
		return
	}

	detail, err := h.cardService.GetCardDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// ImportCards imports a JSON (or YAML, by Content-Type) list of card records
func (h *CardHandler) ImportCards(c *gin.Context) {
	format := services.FormatJSON
	if strings.Contains(c.ContentType(), "yaml") {
		format = services.FormatYAML
	}

	records, err := services.DecodeRecords(c.Request.Body, format)
	if err != nil {
		respondError(c, err)
		return
	}

	importer := services.NewImporter(h.store, services.ImportOptions{
		ContinueOnError: c.Query("continue_on_error") == "true",
	})
	result, err := importer.Import(c.Request.Context(), records)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
