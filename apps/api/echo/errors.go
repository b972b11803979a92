package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fsnd-projects/fsnd/core"
	"github.com/fsnd-projects/fsnd/core/booking"
	"github.com/fsnd-projects/fsnd/core/coffee"
	"github.com/fsnd-projects/fsnd/core/trivia"
)

var (
	errHttpBadRequest    = echo.NewHTTPError(http.StatusBadRequest)
	errUnauthorized      = echo.NewHTTPError(http.StatusUnauthorized)
	errHttpNotFound      = echo.NewHTTPError(http.StatusNotFound)
	errHttpUnprocessable = echo.NewHTTPError(http.StatusUnprocessableEntity)
)

// statusMessages are the only messages clients ever see; internal error texts stay in the logs.
var statusMessages = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusUnauthorized:        "unauthorized",
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "resource not found",
	http.StatusMethodNotAllowed:    "method not allowed",
	http.StatusUnprocessableEntity: "unprocessable",
	http.StatusInternalServerError: "internal server error",
}

// notFoundErrs are domain errors answered with a 404.
var notFoundErrs = []error{
	booking.ErrVenueNotFound,
	booking.ErrArtistNotFound,
	trivia.ErrNotFound,
	trivia.ErrCategoryNotFound,
	trivia.ErrNoQuizQuestion,
	trivia.ErrInvalidQuiz,
	coffee.ErrNotFound,
}

// httpError is the error envelope shared by the JSON APIs.
type httpError struct {
	Success bool              `json:"success"`
	Error   int               `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Detail  string            `json:"detail,omitempty"`
}

func statusMessage(code int) string {
	if msg, ok := statusMessages[code]; ok {
		return msg
	}
	return http.StatusText(code)
}

func isNotFound(err error) bool {
	for _, nfErr := range notFoundErrs {
		if err == nfErr {
			return true
		}
	}
	return false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		resp := httpError{}
		cause := errors.Cause(err)

		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			resp.Error = origErr.Code
		case validator.ValidationErrors:
			resp.Error = http.StatusUnprocessableEntity
			resp.Fields = core.TranslateFields(origErr, translator)
		case *core.ValidationError:
			resp.Error = http.StatusUnprocessableEntity
			if len(origErr.Fields) > 0 {
				resp.Fields = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					resp.Fields[fErr.Field] = fErr.Error
				}
			}
		default:
			if isNotFound(cause) {
				resp.Error = http.StatusNotFound
				break
			}

			// any other error is a server error
			resp.Error = http.StatusInternalServerError
			msg := statusMessage(resp.Error)
			logger.Error(msg, errors.Wrap(err, msg), contextSubject(ctx))
			if ctx.Echo().Debug {
				resp.Detail = err.Error()
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}
		resp.Message = statusMessage(resp.Error)

		// Send response
		if ctx.Request().Method == http.MethodHead { // Issue #608
			err = ctx.NoContent(resp.Error)
		} else if wantsHTML(ctx) && (resp.Error == http.StatusNotFound || resp.Error >= http.StatusInternalServerError) {
			err = renderError(ctx, resp.Error)
		} else {
			err = ctx.JSON(resp.Error, resp)
		}
		if err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}
