package echoapi

import (
	"embed"
	"encoding/base64"
	"encoding/json"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fsnd-projects/fsnd/core/booking"
)

//go:embed templates
var templatesFS embed.FS

const (
	layoutTemplate    = "templates/layouts/main.html"
	partialsPattern   = "templates/partials/*.html"
	flashCookieName   = "flashes"
	contextFlashKey   = "flashes"
	flashCookieMaxAge = 60
)

// datetime layouts of the `datetime` template func
var datetimeFormats = map[string]string{
	"medium": "Mon 01, 02, 2006 3:04PM",
	"full":   "Monday January, 2, 2006 at 3:04PM",
}

var templateFuncs = template.FuncMap{
	"datetime": formatDatetime,
	"contains": func(list []string, s string) bool {
		for _, item := range list {
			if item == s {
				return true
			}
		}
		return false
	},
	"summaries": func(kind string, items []booking.Summary) summaryList {
		return summaryList{Kind: kind, Items: items}
	},
}

// summaryList feeds the summary_list partial; Kind is the path prefix of the items.
type summaryList struct {
	Kind  string
	Items []booking.Summary
}

func formatDatetime(t time.Time, format ...string) string {
	layout := datetimeFormats["medium"]
	if len(format) > 0 {
		if l, ok := datetimeFormats[format[0]]; ok {
			layout = l
		}
	}
	return t.Format(layout)
}

type flashMessage struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// view is what every page template executes with.
type view struct {
	Flashes []flashMessage
	Genres  []string
	States  []string
	Data    interface{}
}

// templateRenderer is an echo.Renderer holding one template set per page, each made of the layout,
// the partials and the page itself.
type templateRenderer struct {
	templates map[string]*template.Template
}

var _ echo.Renderer = (*templateRenderer)(nil) // interface compliance check

func newTemplateRenderer() (*templateRenderer, error) {
	pages, err := fs.Glob(templatesFS, "templates/*/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "listing templates")
	}

	r := &templateRenderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		if strings.HasPrefix(page, "templates/partials/") || strings.HasPrefix(page, "templates/layouts/") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(page, "templates/"), ".html")
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templatesFS, layoutTemplate, partialsPattern, page)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing template %q", name)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, ctx echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return errors.Errorf("template %q not found", name)
	}
	v := view{
		Flashes: popFlashes(ctx),
		Genres:  booking.Genres,
		States:  booking.States,
		Data:    data,
	}
	return tmpl.ExecuteTemplate(w, "layout", v)
}

func renderError(ctx echo.Context, code int) error {
	name := "errors/500"
	if code == http.StatusNotFound {
		name = "errors/404"
	}
	return ctx.Render(code, name, nil)
}

// Flash messages survive one redirect in a short-lived cookie.

func addFlash(ctx echo.Context, category, message string) {
	msgs, _ := ctx.Get(contextFlashKey).([]flashMessage)
	msgs = append(msgs, flashMessage{Category: category, Message: message})
	ctx.Set(contextFlashKey, msgs)

	data, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	ctx.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		MaxAge:   flashCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns the messages flashed by the previous request and by this one, then clears them.
func popFlashes(ctx echo.Context) []flashMessage {
	var msgs []flashMessage
	if cookie, err := ctx.Cookie(flashCookieName); err == nil && cookie.Value != "" {
		if data, err := base64.RawURLEncoding.DecodeString(cookie.Value); err == nil {
			_ = json.Unmarshal(data, &msgs)
		}
	}
	pending, _ := ctx.Get(contextFlashKey).([]flashMessage)
	if len(msgs) == 0 && len(pending) == 0 {
		return nil
	}

	ctx.Set(contextFlashKey, nil)
	ctx.SetCookie(&http.Cookie{Name: flashCookieName, Path: "/", MaxAge: -1, HttpOnly: true})
	return append(msgs, pending...)
}
