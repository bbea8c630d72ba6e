package handler // handler package contains the show registry handlers

import (
    "net/http" // http defines status codes
    "strconv"  // strconv converts path params to integers
    "strings"  // strings helps with trimming whitespace
    "time"     // time is used for parsing and formatting timestamps

    "github.com/labstack/echo/v4" // echo provides the web context and JSON helpers

    "github.com/showtix/showtix/internal/queue"      // queue defines event payloads
    "github.com/showtix/showtix/internal/repository" // repository defines data models
    queue_publisher "github.com/showtix/showtix/internal/service"
    "github.com/showtix/showtix/internal/ticketing" // ticketing holds validation rules
)

// ShowHandler serves the append-only show registry: owner-gated creation
// and public lookup. Show records are immutable after creation.
type ShowHandler struct {
    Shows *repository.ShowRepo
}

// NewShowHandler constructs a ShowHandler and panics if the repository is nil.
func NewShowHandler(shows *repository.ShowRepo) *ShowHandler {
    if shows == nil {
        panic("nil repository passed to NewShowHandler")
    }
    return &ShowHandler{Shows: shows}
}

// showResp is the public shape of a show record.
type showResp struct {
    ID              uint64 `json:"id"`
    Name            string `json:"name"`
    StartsAt        string `json:"starts_at"`
    DurationMinutes uint32 `json:"duration_minutes"`
}

func toShowResp(s *repository.Show) showResp {
    return showResp{
        ID:              s.ID,
        Name:            s.Name,
        StartsAt:        s.StartsAt.UTC().Format(time.RFC3339),
        DurationMinutes: s.DurationMinutes,
    }
}

// CreateShow handles POST /v1/shows. The route is owner-only; the handler
// validates the name and schedule and assigns the next sequential id (the
// first show ever created gets id 1). On success a show.created event is
// published.
func (h *ShowHandler) CreateShow(c echo.Context) error {
    var body struct {
        Name            string `json:"name"`             // title of the show
        StartsAt        string `json:"starts_at"`        // RFC3339 start time, strictly future
        DurationMinutes uint32 `json:"duration_minutes"` // length of the show
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name := strings.TrimSpace(body.Name)
    startsRaw := strings.TrimSpace(body.StartsAt)
    if startsRaw == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at is required"})
    }
    startsAt, err := time.Parse(time.RFC3339, startsRaw)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starts_at format"})
    }
    if err := ticketing.ValidateShow(name, startsAt, time.Now().UTC()); err != nil {
        switch err {
        case ticketing.ErrNameRequired:
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "show name is required"})
        case ticketing.ErrInvalidSchedule:
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show start date"})
        }
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show"})
    }

    show := &repository.Show{
        Name:            name,
        StartsAt:        startsAt.UTC(),
        DurationMinutes: body.DurationMinutes,
    }
    if err := h.Shows.Create(c.Request().Context(), show); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create show"})
    }

    // The record is committed; event failures are logged inside the
    // publisher and intentionally not surfaced to the caller.
    _ = queue_publisher.Publish(c.Request().Context(), queue.ShowCreatedQueue, queue.ShowCreatedEvent{
        ShowID:          show.ID,
        Name:            show.Name,
        StartsAt:        show.StartsAt.UTC().Format(time.RFC3339),
        DurationMinutes: show.DurationMinutes,
    })

    return c.JSON(http.StatusCreated, toShowResp(show))
}

// GetShow handles GET /v1/shows/:id. Lookups of ids that were never
// assigned fail with 404; that includes id 0, which is reserved and never
// produced by creation.
func (h *ShowHandler) GetShow(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
    }
    show, err := h.Shows.GetByID(c.Request().Context(), id)
    if err != nil {
        if err == repository.ErrShowNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "show does not exist"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, toShowResp(show))
}
