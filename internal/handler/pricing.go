package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/showtix/showtix/internal/repository"
	"github.com/showtix/showtix/internal/ticketing"
)

// PricingHandler serves the ticket price: public read, owner-only write.
type PricingHandler struct {
	Settings *repository.SettingsRepo
}

func NewPricingHandler(settings *repository.SettingsRepo) *PricingHandler {
	if settings == nil {
		panic("nil repository passed to NewPricingHandler")
	}
	return &PricingHandler{Settings: settings}
}

// GetTicketPrice handles GET /v1/ticket-price.
func (h *PricingHandler) GetTicketPrice(c echo.Context) error {
	price, err := h.Settings.TicketPrice(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ticket_price": price.String()})
}

// ChangeTicketPrice handles PUT /v1/ticket-price. The route is owner-only.
// The new price must be a positive decimal no finer than the smallest
// currency unit; existing holdings are unaffected, only future purchases
// price at the new value.
func (h *PricingHandler) ChangeTicketPrice(c echo.Context) error {
	var body struct {
		Price string `json:"price"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	price, err := decimal.NewFromString(body.Price)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price"})
	}
	if err := ticketing.ValidateAmount(price); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price"})
	}
	if err := h.Settings.SetTicketPrice(c.Request().Context(), price); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update price"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ticket_price": price.String()})
}
