package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/showtix/showtix/internal/repository"
	"github.com/showtix/showtix/internal/ticketing"
)

// WalletHandler serves the funds wallet of the authenticated account.
// Deposits stand in for the hosting environment's value transfer; the
// purchase flow later debits the wallet for the paid amount.
type WalletHandler struct {
	Wallets *repository.WalletRepo
}

func NewWalletHandler(wallets *repository.WalletRepo) *WalletHandler {
	if wallets == nil {
		panic("nil repository passed to NewWalletHandler")
	}
	return &WalletHandler{Wallets: wallets}
}

// Deposit handles POST /v1/wallet/deposit.
func (h *WalletHandler) Deposit(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Amount string `json:"amount"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	}
	if err := ticketing.ValidateAmount(amount); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	}
	if err := h.Wallets.Deposit(c.Request().Context(), accountID, amount); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deposit failed"})
	}
	balance, err := h.Wallets.Balance(c.Request().Context(), accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"balance": balance.String()})
}

// GetWallet handles GET /v1/wallet.
func (h *WalletHandler) GetWallet(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	balance, err := h.Wallets.Balance(c.Request().Context(), accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"account_id": accountID, "balance": balance.String()})
}
