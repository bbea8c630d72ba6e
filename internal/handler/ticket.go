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

// TicketHandler drives the sale and redemption flow. A purchase debits the
// buyer's wallet, refunds the change, credits the proceeds to the treasury
// and mints the ticket tokens, all in one database transaction; redemption
// marks the holding consumed and burns the tokens the same way. The
// treasury account performs the mint and burn, so revoking its issuer
// grant halts sales and redemptions.
type TicketHandler struct {
	Shows      *repository.ShowRepo
	Ledger     *repository.LedgerRepo
	Wallets    *repository.WalletRepo
	Holdings   *repository.HoldingRepo
	Settings   *repository.SettingsRepo
	TreasuryID uint64
}

func NewTicketHandler(
	shows *repository.ShowRepo,
	ledger *repository.LedgerRepo,
	wallets *repository.WalletRepo,
	holdings *repository.HoldingRepo,
	settings *repository.SettingsRepo,
	treasuryID uint64,
) *TicketHandler {
	if shows == nil || ledger == nil || wallets == nil || holdings == nil || settings == nil {
		panic("nil repository passed to NewTicketHandler")
	}
	return &TicketHandler{
		Shows:      shows,
		Ledger:     ledger,
		Wallets:    wallets,
		Holdings:   holdings,
		Settings:   settings,
		TreasuryID: treasuryID,
	}
}

// BuyTickets handles POST /v1/shows/:id/tickets. The body carries the paid
// amount; the handler computes floor(paid/price) tickets and refunds the
// remainder. Sales close the moment the show starts.
func (h *TicketHandler) BuyTickets(c echo.Context) error {
	buyerID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var body struct {
		Paid string `json:"paid"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	paid, err := decimal.NewFromString(body.Paid)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid paid amount"})
	}
	if err := ticketing.ValidateAmount(paid); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid paid amount"})
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

	show, err := h.Shows.GetByIDTx(ctx, tx, showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if ticketing.Started(show.StartsAt, time.Now().UTC()) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "show already started, buy tickets is not allowed"})
	}

	price, err := h.Settings.TicketPriceTx(ctx, tx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	order, err := ticketing.PriceOrder(paid, price)
	if err != nil {
		if errors.Is(err, ticketing.ErrInsufficientPayment) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient value to buy tickets"})
		}
		if errors.Is(err, ticketing.ErrOrderTooLarge) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "order too large"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid paid amount"})
	}

	// Debit the full paid amount, then return the change. Keeping both in
	// the transaction means the buyer never observes a debit without its
	// refund.
	if err := h.Wallets.DebitTx(ctx, tx, buyerID, paid); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient funds"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
	}
	if order.Refund.IsPositive() {
		if err := h.Wallets.CreditTx(ctx, tx, buyerID, order.Refund); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
		}
	}
	if err := h.Wallets.CreditTx(ctx, tx, h.TreasuryID, order.Cost); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
	}

	minted := decimal.NewFromInt(int64(order.Tickets))
	if err := h.Ledger.MintTx(ctx, tx, h.TreasuryID, buyerID, minted); err != nil {
		if errors.Is(err, repository.ErrUnauthorized) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "user without permission"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mint failed"})
	}
	if err := h.Holdings.RecordPurchaseTx(ctx, tx, buyerID, showID, order.Tickets); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record purchase"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	now := time.Now().UTC().Format(time.RFC3339)
	_ = queue_publisher.Publish(ctx, queue.TicketSoldQueue, queue.TicketSoldEvent{
		ShowID:      showID,
		TicketCount: order.Tickets,
		AccountID:   buyerID,
		Paid:        paid.String(),
		Cost:        order.Cost.String(),
		Refund:      order.Refund.String(),
		SoldAt:      now,
	})
	_ = queue_publisher.Publish(ctx, queue.TransferQueue, queue.TransferEvent{
		From:   0,
		To:     buyerID,
		Amount: minted.String(),
		Kind:   "mint",
		At:     now,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"show_id":      showID,
		"ticket_count": order.Tickets,
		"cost":         order.Cost.String(),
		"refund":       order.Refund.String(),
	})
}

// ConsumeTicket handles POST /v1/shows/:id/consume. Redemption is
// all-or-nothing: the full holding is marked consumed and the matching
// ledger units burned. A holding can be redeemed once; buying again after
// redemption starts a fresh holding.
func (h *TicketHandler) ConsumeTicket(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
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

	count, err := h.Holdings.ConsumeTx(ctx, tx, accountID, showID)
	if err != nil {
		if errors.Is(err, repository.ErrNoTickets) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "you do not have tickets for this show"})
		}
		if errors.Is(err, repository.ErrAlreadyConsumed) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "the tickets are already accessed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	burned := decimal.NewFromInt(int64(count))
	if err := h.Ledger.BurnTx(ctx, tx, h.TreasuryID, accountID, burned); err != nil {
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

	now := time.Now().UTC().Format(time.RFC3339)
	_ = queue_publisher.Publish(ctx, queue.TicketConsumedQueue, queue.TicketConsumedEvent{
		ShowID:      showID,
		TicketCount: count,
		AccountID:   accountID,
		ConsumedAt:  now,
	})
	_ = queue_publisher.Publish(ctx, queue.TransferQueue, queue.TransferEvent{
		From:   accountID,
		To:     0,
		Amount: burned.String(),
		Kind:   "burn",
		At:     now,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"show_id":      showID,
		"ticket_count": count,
		"consumed":     true,
	})
}

// MyTickets handles GET /v1/me/tickets.
func (h *TicketHandler) MyTickets(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Holdings.ListByAccount(c.Request().Context(), accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if list == nil {
		list = []repository.HoldingDetail{}
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": list})
}
