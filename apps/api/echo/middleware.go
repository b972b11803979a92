package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const contextHTMLKey = "html"

var corsConfig = middleware.CORSConfig{
	AllowOrigins: []string{"*"},
	AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	AllowMethods: []string{
		http.MethodGet,
		http.MethodPut,
		http.MethodPost,
		http.MethodDelete,
		http.MethodPatch,
		http.MethodOptions,
	},
}

// htmlPage marks the request as coming from a page of the site, so errors are rendered as pages too.
func htmlPage(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		ctx.Set(contextHTMLKey, true)
		return next(ctx)
	}
}

// wantsHTML reports whether an error should be answered with an error page.
// Unrouted requests have no marker: a browser asking for html gets the page when the site is served.
func wantsHTML(ctx echo.Context) bool {
	if ctx.Echo().Renderer == nil {
		return false
	}
	if marked, _ := ctx.Get(contextHTMLKey).(bool); marked {
		return true
	}
	return strings.Contains(ctx.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
