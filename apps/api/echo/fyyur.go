package echoapi

import (
	"fmt"
	"net/http"
	"sort"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fsnd-projects/fsnd/core"
	"github.com/fsnd-projects/fsnd/core/booking"
)

const (
	flashSuccess = "success"
	flashDanger  = "danger"

	searchTermField = "search_term"
)

type (
	venuesPage struct {
		Areas []booking.Area
	}

	artistsPage struct {
		Artists []booking.Artist
	}

	showsPage struct {
		Shows []booking.ShowListing
	}

	searchPage struct {
		Kind       string
		SearchTerm string
		Results    booking.SearchResult
	}

	venuePage struct {
		Venue booking.VenueDetail
	}

	artistPage struct {
		Artist booking.ArtistDetail
	}

	// formPage renders a create form when ID is 0, an edit form otherwise.
	formPage struct {
		ID   int
		Form interface{}
	}

	newShowPage struct {
		DefaultStart string
	}
)

type fyyurSite struct {
	svc        booking.ServiceInterface
	logger     core.Logger
	validate   *validator.Validate
	translator ut.Translator
}

func registerFyyurSite(
	g *echo.Group,
	svc booking.ServiceInterface,
	logger core.Logger,
	validate *validator.Validate,
	translator ut.Translator,
) {
	site := fyyurSite{
		svc:        svc,
		logger:     logger,
		validate:   validate,
		translator: translator,
	}

	g.GET("/", site.home, htmlPage)

	g.GET("/venues", site.venues, htmlPage)
	g.POST("/venues/search", site.searchVenues, htmlPage)
	g.GET("/venues/create", site.newVenueForm, htmlPage)
	g.POST("/venues/create", site.createVenue, htmlPage)
	g.GET("/venues/:id", site.venue, htmlPage)
	g.GET("/venues/:id/edit", site.editVenueForm, htmlPage)
	g.POST("/venues/:id/edit", site.updateVenue, htmlPage)
	g.DELETE("/venues/:id", site.deleteVenue) // called from script, answers json

	g.GET("/artists", site.artists, htmlPage)
	g.POST("/artists/search", site.searchArtists, htmlPage)
	g.GET("/artists/create", site.newArtistForm, htmlPage)
	g.POST("/artists/create", site.createArtist, htmlPage)
	g.GET("/artists/:id", site.artist, htmlPage)
	g.GET("/artists/:id/edit", site.editArtistForm, htmlPage)
	g.POST("/artists/:id/edit", site.updateArtist, htmlPage)

	g.GET("/shows", site.shows, htmlPage)
	g.GET("/shows/create", site.newShowForm, htmlPage)
	g.POST("/shows/create", site.createShow, htmlPage)
}

// flashFailure flashes msg followed by the invalid fields, if err is a validation error.
// Any other error is logged.
func (site *fyyurSite) flashFailure(ctx echo.Context, err error, msg string) {
	addFlash(ctx, flashDanger, msg)

	var fields map[string]string
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		fields = core.TranslateFields(origErr, site.translator)
	case *core.ValidationError:
		fields = make(map[string]string, len(origErr.Fields))
		for _, fErr := range origErr.Fields {
			fields[fErr.Field] = fErr.Error
		}
	default:
		site.logger.Error(msg, err)
		return
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		addFlash(ctx, flashDanger, fmt.Sprintf("%s: %s", name, fields[name]))
	}
}

// Handlers

func (site *fyyurSite) home(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "pages/home", nil)
}

// Venues

func (site *fyyurSite) venues(ctx echo.Context) error {
	areas, err := site.svc.ListAreas(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing areas")
	}
	return ctx.Render(http.StatusOK, "pages/venues", venuesPage{Areas: areas})
}

func (site *fyyurSite) searchVenues(ctx echo.Context) error {
	term := ctx.FormValue(searchTermField)
	res, err := site.svc.SearchVenues(ctx.Request().Context(), term)
	if err != nil {
		return errors.Wrap(err, "searching venues")
	}
	return ctx.Render(http.StatusOK, "pages/search", searchPage{Kind: "venues", SearchTerm: term, Results: res})
}

func (site *fyyurSite) venue(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	venue, err := site.svc.GetVenue(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting venue")
	}
	return ctx.Render(http.StatusOK, "pages/show_venue", venuePage{Venue: venue})
}

func (site *fyyurSite) newVenueForm(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "forms/venue", formPage{Form: booking.VenueForm{}})
}

func (site *fyyurSite) createVenue(ctx echo.Context) error {
	var form booking.VenueForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to VenueForm")
	}

	err := form.Validate(site.validate)
	if err == nil {
		_, err = site.svc.CreateVenue(ctx.Request().Context(), form)
	}
	if err != nil {
		site.flashFailure(ctx, err, "An error occurred. Venue "+form.Name+" could not be listed.")
	} else {
		addFlash(ctx, flashSuccess, "Venue "+form.Name+" was successfully listed!")
	}
	return ctx.Render(http.StatusOK, "pages/home", nil)
}

func (site *fyyurSite) editVenueForm(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	venue, err := site.svc.GetVenue(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting venue")
	}
	return ctx.Render(http.StatusOK, "forms/venue", formPage{ID: id, Form: booking.VenueFormFrom(venue.Venue)})
}

func (site *fyyurSite) updateVenue(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var form booking.VenueForm
	if err = ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to VenueForm")
	}

	err = form.Validate(site.validate)
	if err == nil {
		_, err = site.svc.UpdateVenue(ctx.Request().Context(), id, form)
	}
	switch {
	case errors.Cause(err) == booking.ErrVenueNotFound:
		return err
	case err != nil:
		site.flashFailure(ctx, err, "An error occurred. Venue "+form.Name+" could not be updated.")
	default:
		addFlash(ctx, flashSuccess, "Venue "+form.Name+" was successfully updated!")
	}
	return ctx.Redirect(http.StatusFound, fmt.Sprintf("/venues/%d", id))
}

func (site *fyyurSite) deleteVenue(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = site.svc.DeleteVenue(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting venue")
	}

	addFlash(ctx, flashSuccess, "Venue was successfully deleted!")
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "deleted": id})
}

// Artists

func (site *fyyurSite) artists(ctx echo.Context) error {
	artists, err := site.svc.ListArtists(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing artists")
	}
	return ctx.Render(http.StatusOK, "pages/artists", artistsPage{Artists: artists})
}

func (site *fyyurSite) searchArtists(ctx echo.Context) error {
	term := ctx.FormValue(searchTermField)
	res, err := site.svc.SearchArtists(ctx.Request().Context(), term)
	if err != nil {
		return errors.Wrap(err, "searching artists")
	}
	return ctx.Render(http.StatusOK, "pages/search", searchPage{Kind: "artists", SearchTerm: term, Results: res})
}

func (site *fyyurSite) artist(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	artist, err := site.svc.GetArtist(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting artist")
	}
	return ctx.Render(http.StatusOK, "pages/show_artist", artistPage{Artist: artist})
}

func (site *fyyurSite) newArtistForm(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "forms/artist", formPage{Form: booking.ArtistForm{}})
}

func (site *fyyurSite) createArtist(ctx echo.Context) error {
	var form booking.ArtistForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to ArtistForm")
	}

	err := form.Validate(site.validate)
	if err == nil {
		_, err = site.svc.CreateArtist(ctx.Request().Context(), form)
	}
	if err != nil {
		site.flashFailure(ctx, err, "An error occurred. Artist "+form.Name+" could not be listed.")
	} else {
		addFlash(ctx, flashSuccess, "Artist "+form.Name+" was successfully listed!")
	}
	return ctx.Render(http.StatusOK, "pages/home", nil)
}

func (site *fyyurSite) editArtistForm(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	artist, err := site.svc.GetArtist(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting artist")
	}
	return ctx.Render(http.StatusOK, "forms/artist", formPage{ID: id, Form: booking.ArtistFormFrom(artist.Artist)})
}

func (site *fyyurSite) updateArtist(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var form booking.ArtistForm
	if err = ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to ArtistForm")
	}

	err = form.Validate(site.validate)
	if err == nil {
		_, err = site.svc.UpdateArtist(ctx.Request().Context(), id, form)
	}
	switch {
	case errors.Cause(err) == booking.ErrArtistNotFound:
		return err
	case err != nil:
		site.flashFailure(ctx, err, "An error occurred. Artist "+form.Name+" could not be updated.")
	default:
		addFlash(ctx, flashSuccess, "Artist "+form.Name+" was successfully updated!")
	}
	return ctx.Redirect(http.StatusFound, fmt.Sprintf("/artists/%d", id))
}

// Shows

func (site *fyyurSite) shows(ctx echo.Context) error {
	shows, err := site.svc.ListShows(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing shows")
	}
	return ctx.Render(http.StatusOK, "pages/shows", showsPage{Shows: shows})
}

func (site *fyyurSite) newShowForm(ctx echo.Context) error {
	start := booking.NowFunc().UTC().Format("2006-01-02T15:04")
	return ctx.Render(http.StatusOK, "forms/new_show", newShowPage{DefaultStart: start})
}

func (site *fyyurSite) createShow(ctx echo.Context) error {
	var form booking.ShowForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to ShowForm")
	}

	err := form.Validate(site.validate)
	if err == nil {
		_, err = site.svc.CreateShow(ctx.Request().Context(), form)
	}
	if err != nil {
		site.flashFailure(ctx, err, "An error occurred. Show could not be listed.")
	} else {
		addFlash(ctx, flashSuccess, "Show was successfully listed!")
	}
	return ctx.Render(http.StatusOK, "pages/home", nil)
}
