package game

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pokeidle/server/auth"
	"pokeidle/server/currency"
	"pokeidle/server/httpx"
	"pokeidle/server/shop"
	"pokeidle/server/store"
)

var (
	ErrBannerNotFound     = errors.New("banner not found")
	ErrGenerationNotFound = errors.New("generation not found")
	ErrPokemonNotFound    = errors.New("pokemon not found")
	ErrCannotEvolve       = errors.New("this pokemon cannot evolve that way")
	ErrDaycareFull        = errors.New("daycare is full")
	ErrDaycareDuplicate   = errors.New("this pokemon is already at the daycare")
	ErrItemMissing        = errors.New("item not owned")
	ErrStaleSave          = errors.New("save is older than the server state")
)

type ValidationError = httpx.ValidationError

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Status maps an error to its HTTP status and client message.
func Status(err error) (int, errorBody) {
	var (
		he *echo.HTTPError
		ve *httpx.ValidationError
		ce *currency.Error
	)
	switch {
	case errors.As(err, &he):
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		return he.Code, errorBody{Message: msg}
	case errors.As(err, &ve):
		return http.StatusBadRequest, errorBody{Message: ve.Error()}
	case errors.As(err, &ce):
		switch ce.Code {
		case currency.CodeInsufficientFunds:
			return http.StatusPaymentRequired, errorBody{Message: ce.Message, Code: ce.Code}
		case currency.CodeDuplicateNonce:
			return http.StatusConflict, errorBody{Message: ce.Message, Code: ce.Code}
		}
		return http.StatusBadRequest, errorBody{Message: ce.Message, Code: ce.Code}
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrUnauthorized),
		errors.Is(err, auth.ErrTokenRevoked):
		return http.StatusUnauthorized, errorBody{Message: err.Error()}
	case errors.Is(err, auth.ErrRateLimited):
		return http.StatusTooManyRequests, errorBody{Message: err.Error()}
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, ErrBannerNotFound),
		errors.Is(err, ErrGenerationNotFound),
		errors.Is(err, ErrPokemonNotFound),
		errors.Is(err, shop.ErrUnknownItem):
		return http.StatusNotFound, errorBody{Message: err.Error()}
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, errorBody{Message: "already exists"}
	case errors.Is(err, auth.ErrAccountExists),
		errors.Is(err, ErrDaycareFull),
		errors.Is(err, ErrDaycareDuplicate),
		errors.Is(err, ErrStaleSave):
		return http.StatusConflict, errorBody{Message: err.Error()}
	case errors.Is(err, ErrCannotEvolve), errors.Is(err, ErrItemMissing):
		return http.StatusBadRequest, errorBody{Message: err.Error()}
	}
	return http.StatusInternalServerError, errorBody{Message: "internal error"}
}

// ErrorHandler renders every handler error as {"message": ...}.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	log = log.Named("http")
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := Status(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("request_id", httpx.RequestIDFrom(c)),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

