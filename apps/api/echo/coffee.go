package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fsnd-projects/fsnd/core/coffee"
)

type coffeeApi struct {
	svc      coffee.ServiceInterface
	validate *validator.Validate
}

func registerCoffeeAPI(
	g *echo.Group,
	tv TokenValidator,
	svc coffee.ServiceInterface,
	validate *validator.Validate,
) {
	api := coffeeApi{
		svc:      svc,
		validate: validate,
	}

	// public endpoints
	g.GET("/drinks", api.queryShort)

	// authed endpoints
	g.GET("/drinks-detail", api.queryLong, requirePermission(tv, coffee.PermGetDrinksDetail))
	g.POST("/drinks", api.create, requirePermission(tv, coffee.PermPostDrinks))
	g.PATCH("/drinks/:id", api.update, requirePermission(tv, coffee.PermPatchDrinks))
	g.DELETE("/drinks/:id", api.destroy, requirePermission(tv, coffee.PermDeleteDrinks))
}

// Handlers

func (api *coffeeApi) queryShort(ctx echo.Context) error {
	drinks, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying drinks")
	}
	if len(drinks) == 0 {
		return errHttpNotFound
	}

	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "drinks": coffee.ShortDrinks(drinks)})
}

func (api *coffeeApi) queryLong(ctx echo.Context) error {
	drinks, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying drinks")
	}
	if len(drinks) == 0 {
		return errHttpNotFound
	}

	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "drinks": coffee.LongDrinks(drinks...)})
}

func (api *coffeeApi) create(ctx echo.Context) error {
	var data coffee.NewDrink
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDrink")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	drink, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating drink")
	}

	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "drinks": coffee.LongDrinks(drink)})
}

func (api *coffeeApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data coffee.UpdateDrink
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateDrink")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	drink, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating drink")
	}

	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "drinks": coffee.LongDrinks(drink)})
}

func (api *coffeeApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting drink")
	}

	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "delete": id})
}
