package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fsnd-projects/fsnd/core"
)

var (
	orderingParam = "ordering"
	pageParam     = "page"
)

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// Page is the 1-based page requested through `?page=`; missing or non-numeric values mean the first page.
type Page struct {
	Number int
}

func (p *Page) Bind(ctx echo.Context) {
	p.Number = 1
	if n, err := strconv.Atoi(strings.TrimSpace(ctx.QueryParam(pageParam))); err == nil {
		p.Number = n
	}
}

// idParam parses the `:id` path param. Anything but an integer does not name a resource.
func idParam(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}
