package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tcg-backend/internal/app"
	"tcg-backend/internal/transport/http/response"
)

type CardHandler struct {
	cardService *app.CardService
}

func NewCardHandler(cardService *app.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

func (h *CardHandler) List(c *gin.Context) {
	cards, err := h.cardService.ListCards(c.Request.Context())
	if err != nil {
		log.Printf("list cards failed: %v", err)
		response.Error(c, http.StatusInternalServerError, "server error")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"cards": cards})
}
