package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/showtix/showtix/internal/queue"
	"github.com/showtix/showtix/internal/repository"
	queue_publisher "github.com/showtix/showtix/internal/service"
	"github.com/showtix/showtix/internal/ticketing"
)

// LedgerHandler serves the token ledger surface: owner-gated role
// management, issuer-gated supply changes and the open transfer/balance
// operations. Supply changes run inside a transaction so the issuer-role
// check and the balance update commit or roll back together.
type LedgerHandler struct {
	Ledger   *repository.LedgerRepo
	Issuers  *repository.IssuerRepo
	Accounts *repository.AccountRepo
}

// NewLedgerHandler constructs a LedgerHandler with the provided
// repositories. All dependencies must be non-nil.
func NewLedgerHandler(ledger *repository.LedgerRepo, issuers *repository.IssuerRepo, accounts *repository.AccountRepo) *LedgerHandler {
	if ledger == nil || issuers == nil || accounts == nil {
		panic("nil repository passed to NewLedgerHandler")
	}
	return &LedgerHandler{Ledger: ledger, Issuers: issuers, Accounts: accounts}
}

// amountReq is the shared body of mint, burn and transfer requests. The
// amount is a decimal string in whole tokens.
type amountReq struct {
	AccountID uint64 `json:"account_id"`
	Amount    string `json:"amount"`
}

// parseAmount validates the decimal payload of a supply or transfer call.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ticketing.ErrInvalidAmount
	}
	if err := ticketing.ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// GrantIssuer handles POST /v1/ledger/issuers. The route is owner-only.
func (h *LedgerHandler) GrantIssuer(c echo.Context) error {
	actorID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		AccountID uint64 `json:"account_id"`
	}
	if err := c.Bind(&body); err != nil || body.AccountID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "account_id is required"})
	}
	if err := h.Issuers.Grant(c.Request().Context(), body.AccountID, actorID); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not grant role"})
	}
	_ = queue_publisher.Publish(c.Request().Context(), queue.RoleQueue, queue.RoleEvent{
		AccountID: body.AccountID,
		ActorID:   actorID,
		Action:    "granted",
		At:        time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, echo.Map{"account_id": body.AccountID, "has_role": true})
}

// RevokeIssuer handles DELETE /v1/ledger/issuers/:id. The route is
// owner-only. Revoking the treasury's grant stops ticket sales and
// redemptions until it is granted again.
func (h *LedgerHandler) RevokeIssuer(c echo.Context) error {
	actorID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	accountID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || accountID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}
	if err := h.Issuers.Revoke(c.Request().Context(), accountID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not revoke role"})
	}
	_ = queue_publisher.Publish(c.Request().Context(), queue.RoleQueue, queue.RoleEvent{
		AccountID: accountID,
		ActorID:   actorID,
		Action:    "revoked",
		At:        time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, echo.Map{"account_id": accountID, "has_role": false})
}

// HasRole handles GET /v1/ledger/issuers/:id.
func (h *LedgerHandler) HasRole(c echo.Context) error {
	accountID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}
	ok, err := h.Issuers.HasRole(c.Request().Context(), accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"account_id": accountID, "has_role": ok})
}

// BalanceOf handles GET /v1/ledger/balance/:id. Unknown accounts read as
// zero rather than 404; a balance exists for every id.
func (h *LedgerHandler) BalanceOf(c echo.Context) error {
	accountID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}
	balance, err := h.Ledger.BalanceOf(c.Request().Context(), accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"account_id": accountID, "balance": balance.String()})
}

// Mint handles POST /v1/ledger/mint. The caller must hold the issuer role;
// the check happens inside the same transaction as the balance update.
func (h *LedgerHandler) Mint(c echo.Context) error {
	callerID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body amountReq
	if err := c.Bind(&body); err != nil || body.AccountID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "account_id is required"})
	}
	amount, err := parseAmount(body.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	}
	ctx := c.Request().Context()
	exists, err := h.Accounts.Exists(ctx, body.AccountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
	}

	tx, err := h.Ledger.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Ledger.MintTx(ctx, tx, callerID, body.AccountID, amount); err != nil {
		if errors.Is(err, repository.ErrUnauthorized) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "user without permission"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mint failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	_ = queue_publisher.Publish(ctx, queue.TransferQueue, queue.TransferEvent{
		From:   0,
		To:     body.AccountID,
		Amount: amount.String(),
		Kind:   "mint",
		At:     time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, echo.Map{"account_id": body.AccountID, "minted": amount.String()})
}

// Burn handles POST /v1/ledger/burn. The caller must hold the issuer role
// and the target account must hold at least the burned amount.
func (h *LedgerHandler) Burn(c echo.Context) error {
	callerID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body amountReq
	if err := c.Bind(&body); err != nil || body.AccountID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "account_id is required"})
	}
	amount, err := parseAmount(body.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	}
	ctx := c.Request().Context()

	tx, err := h.Ledger.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Ledger.BurnTx(ctx, tx, callerID, body.AccountID, amount); err != nil {
		if errors.Is(err, repository.ErrUnauthorized) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "user without permission"})
		}
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient balance"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "burn failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	_ = queue_publisher.Publish(ctx, queue.TransferQueue, queue.TransferEvent{
		From:   body.AccountID,
		To:     0,
		Amount: amount.String(),
		Kind:   "burn",
		At:     time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, echo.Map{"account_id": body.AccountID, "burned": amount.String()})
}

// Transfer handles POST /v1/ledger/transfer. Any authenticated account may
// move its own tokens; no role is required.
func (h *LedgerHandler) Transfer(c echo.Context) error {
	callerID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		To     uint64 `json:"to"`
		Amount string `json:"amount"`
	}
	if err := c.Bind(&body); err != nil || body.To == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to is required"})
	}
	if body.To == callerID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot transfer to self"})
	}
	amount, err := parseAmount(body.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	}
	ctx := c.Request().Context()
	exists, err := h.Accounts.Exists(ctx, body.To)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
	}

	tx, err := h.Ledger.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Ledger.TransferTx(ctx, tx, callerID, body.To, amount); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient balance"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transfer failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	_ = queue_publisher.Publish(ctx, queue.TransferQueue, queue.TransferEvent{
		From:   callerID,
		To:     body.To,
		Amount: amount.String(),
		Kind:   "transfer",
		At:     time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, echo.Map{"to": body.To, "amount": amount.String()})
}
