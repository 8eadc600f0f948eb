package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tcg-backend/internal/app"
	"tcg-backend/internal/transport/http/middleware"
	"tcg-backend/internal/transport/http/response"
)

type DeckHandler struct {
	deckService *app.DeckService
}

type DeckRequest struct {
	Name  string `json:"name"`
	Cards []int  `json:"cards"`
}

func NewDeckHandler(deckService *app.DeckService) *DeckHandler {
	return &DeckHandler{deckService: deckService}
}

func (h *DeckHandler) Create(c *gin.Context) {
	var req DeckRequest
	if !bindJSON(c, &req) {
		return
	}

	_, err := h.deckService.Create(c.Request.Context(), middleware.UserID(c), app.CreateDeckInput{
		Name:  req.Name,
		Cards: req.Cards,
	})
	if err != nil {
		writeDeckError(c, "create deck", err)
		return
	}
	response.Message(c, http.StatusCreated, "deck created")
}

func (h *DeckHandler) ListMine(c *gin.Context) {
	decks, err := h.deckService.ListMine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeDeckError(c, "list decks", err)
		return
	}
	response.JSON(c, http.StatusOK, decks)
}

func (h *DeckHandler) Get(c *gin.Context) {
	deck, err := h.deckService.GetByID(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeDeckError(c, "get deck", err)
		return
	}
	response.JSON(c, http.StatusOK, deck)
}

func (h *DeckHandler) Update(c *gin.Context) {
	var req DeckRequest
	if !bindJSON(c, &req) {
		return
	}

	_, err := h.deckService.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), app.UpdateDeckInput{
		Name:  req.Name,
		Cards: req.Cards,
	})
	if err != nil {
		writeDeckError(c, "update deck", err)
		return
	}
	response.Message(c, http.StatusOK, "deck updated")
}

func (h *DeckHandler) Delete(c *gin.Context) {
	if err := h.deckService.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeDeckError(c, "delete deck", err)
		return
	}
	response.Message(c, http.StatusOK, "deck deleted")
}

func writeDeckError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, app.ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrInvalidDeckName), errors.Is(err, app.ErrInvalidCards):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrDeckNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrDeckForbidden):
		response.Error(c, http.StatusForbidden, err.Error())
	default:
		log.Printf("%s failed: %v", op, err)
		response.Error(c, http.StatusInternalServerError, "server error")
	}
}
