package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getAccountID
    "strconv" // strconv converts strings to numeric types

    "github.com/labstack/echo/v4" // echo defines request context types
)

// getAccountID extracts the acting account id from echo.Context and converts
// it to uint64.  The JWT middleware stores the subject claim under
// "account_id"; depending on how the JSON was decoded it may arrive as a
// float64 or string, so every plausible type is handled.
func getAccountID(c echo.Context) (uint64, error) {
    v := c.Get("account_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid account_id in context")
}
