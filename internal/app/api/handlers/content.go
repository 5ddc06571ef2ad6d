package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/api/middleware"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/content"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/models"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/response"
)

type upsertNoteReq struct {
	Body string `json:"body" binding:"required"`
}

type createSupplementReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Dosage      string `json:"dosage"`
	ImageURL    string `json:"imageUrl"`
}

type createQuoteReq struct {
	Text   string `json:"text" binding:"required"`
	Author string `json:"author"`
}

// @Summary      Notes for a month
// @Tags         Calendar
// @Produce      json
// @Security     BearerAuth
// @Param        month query string true "Month in YYYY-MM form"
// @Success      200  {object}  response.APIResponse[[]models.CalendarNote]
// @Router       /api/v1/notes [get]
func ApiNotesForMonth(svc *content.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		notes, err := svc.NotesForMonth(c.Request.Context(), middleware.AuthUserID(c), c.Query("month"))
		if err != nil {
			if errors.Is(err, content.ErrBadMonth) {
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(notes))
	}
}

// @Summary      Write note for a day
// @Description  Creates or replaces the caller's note for one calendar day.
// @Tags         Calendar
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        date path string true "Day in YYYY-MM-DD form"
// @Param        request body upsertNoteReq true "Note body"
// @Success      200  {object}  response.APIResponse[models.CalendarNote]
// @Router       /api/v1/notes/{date} [put]
func ApiUpsertNote(svc *content.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req upsertNoteReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		note, err := svc.UpsertNote(c.Request.Context(), middleware.AuthUserID(c), c.Param("date"), req.Body)
		if err != nil {
			if errors.Is(err, content.ErrBadDate) {
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(note))
	}
}

// @Summary      Supplement catalog
// @Tags         Content
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.APIResponse[[]models.Supplement]
// @Router       /api/v1/supplements [get]
func ApiListSupplements(svc *content.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.ListSupplements(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Quote of the day
// @Tags         Content
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.APIResponse[models.Quote]
// @Router       /api/v1/quotes/today [get]
func ApiQuoteOfTheDay(svc *content.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		quote, err := svc.QuoteOfTheDay(c.Request.Context(), time.Now())
		if err != nil {
			if errors.Is(err, content.ErrNoQuotes) {
				c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(quote))
	}
}

// @Summary      Add supplement
// @Tags         Content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createSupplementReq true "Supplement"
// @Success      200  {object}  response.APIResponse[models.Supplement]
// @Router       /api/v1/admin/supplements [post]
func ApiCreateSupplement(svc *content.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createSupplementReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		sup, err := svc.CreateSupplement(c.Request.Context(), &models.Supplement{
			Name:        req.Name,
			Description: req.Description,
			Dosage:      req.Dosage,
			ImageURL:    req.ImageURL,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sup))
	}
}

// @Summary      Add quote
// @Tags         Content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createQuoteReq true "Quote"
// @Success      200  {object}  response.APIResponse[models.Quote]
// @Router       /api/v1/admin/quotes [post]
func ApiCreateQuote(svc *content.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createQuoteReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		quote, err := svc.CreateQuote(c.Request.Context(), &models.Quote{Text: req.Text, Author: req.Author})
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(quote))
	}
}

func RegisterContentRoutes(r gin.IRouter, svc *content.Service) {
	r.GET("/notes", ApiNotesForMonth(svc))
	r.PUT("/notes/:date", ApiUpsertNote(svc))
	r.GET("/supplements", ApiListSupplements(svc))
	r.GET("/quotes/today", ApiQuoteOfTheDay(svc))
}

func RegisterAdminContentRoutes(r gin.IRouter, svc *content.Service) {
	r.POST("/supplements", ApiCreateSupplement(svc))
	r.POST("/quotes", ApiCreateQuote(svc))
}
