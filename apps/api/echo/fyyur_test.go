package echoapi_test

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsnd-projects/fsnd/core/booking"
	"github.com/fsnd-projects/fsnd/tests"
)

func venueForm(name, state string) url.Values {
	return url.Values{
		"name":           {name},
		"city":           {"San Francisco"},
		"state":          {state},
		"address":        {"1015 Folsom Street"},
		"phone":          {"123-123-1234"},
		"genres":         {"Jazz", "Folk"},
		"seeking_talent": {"true"},
	}
}

type page struct {
	name     string
	method   string
	path     string
	form     url.Values
	wantCode int
	want     []string
	notWant  []string
}

func runPageTests(t *testing.T, app http.Handler, pages []page) {
	for _, p := range pages {
		if p.method == "" {
			p.method = http.MethodGet
		}
		if p.wantCode == 0 {
			p.wantCode = http.StatusOK
		}

		t.Run(p.name, func(t *testing.T) {
			req, rec := newFormRequest(p.method, p.path, p.form)
			app.ServeHTTP(rec, req)

			body := rec.Body.String()
			require.Equal(t, p.wantCode, rec.Code, body)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
			for _, s := range p.want {
				assert.Contains(t, body, s)
			}
			for _, s := range p.notWant {
				assert.NotContains(t, body, s)
			}
		})
	}
}

func Test_fyyurSite_venues(t *testing.T) {
	f := setup(t, nil)
	now := time.Now().UTC().Truncate(time.Second)

	hop := testutil.CreateVenue(t, f.bookingRepo, "The Musical Hop", "San Francisco", "CA", "Jazz")
	testutil.CreateVenue(t, f.bookingRepo, "Park Square Live Music", "San Francisco", "CA", "Folk")
	testutil.CreateVenue(t, f.bookingRepo, "The Dueling Pianos Bar", "New York", "NY", "Classical")
	guns := testutil.CreateArtist(t, f.bookingRepo, "Guns N Petals", "San Francisco", "CA", "Rock n Roll")
	testutil.CreateShow(t, f.bookingRepo, guns.ID, hop.ID, now.Add(-48*time.Hour))
	testutil.CreateShow(t, f.bookingRepo, guns.ID, hop.ID, now.Add(48*time.Hour))

	hopPath := fmt.Sprintf("/venues/%d", hop.ID)
	runPageTests(t, f.app, []page{
		{name: "home", path: "/", want: []string{"<title>Fyyur | Fyyur</title>", `action="/venues/search"`}},
		{
			name: "areas", path: "/venues",
			want: []string{"San Francisco, CA", "New York, NY", "The Musical Hop", "1 upcoming shows", "Park Square Live Music", "0 upcoming shows"},
		},
		{
			name: "detail", path: hopPath,
			want: []string{"<title>The Musical Hop | Fyyur</title>", "1 Upcoming Show<", "1 Past Show<", "Guns N Petals", "Not currently seeking talent"},
		},
		{name: "unknown venue", path: "/venues/999", wantCode: http.StatusNotFound, want: []string{"the page you were looking for was not found"}},
		{name: "invalid id", path: "/venues/abc", wantCode: http.StatusNotFound, want: []string{"the page you were looking for was not found"}},
		{
			name: "search", method: http.MethodPost, path: "/venues/search", form: url.Values{"search_term": {"music"}},
			want:    []string{`Number of search results for "music": 2`, "The Musical Hop", "Park Square Live Music"},
			notWant: []string{"The Dueling Pianos Bar"},
		},
		{
			name: "empty search", method: http.MethodPost, path: "/venues/search",
			want: []string{`Number of search results for "": 3`},
		},
		{name: "new form", path: "/venues/create", want: []string{`action="/venues/create"`, `<option value="Jazz">`}},
		{
			name: "edit form", path: hopPath + "/edit",
			want: []string{fmt.Sprintf(`action="/venues/%d/edit"`, hop.ID), `value="The Musical Hop"`, `<option value="CA" selected>`, `<option value="Jazz" selected>`},
		},
		{name: "edit unknown venue", path: "/venues/999/edit", wantCode: http.StatusNotFound},
	})
}

func Test_fyyurSite_createVenue(t *testing.T) {
	f := setup(t, nil)

	runPageTests(t, f.app, []page{
		{
			name: "listed", method: http.MethodPost, path: "/venues/create", form: venueForm("The Musical Hop", "CA"),
			want: []string{"Venue The Musical Hop was successfully listed!"},
		},
		{
			name: "invalid", method: http.MethodPost, path: "/venues/create", form: venueForm("Lol", ""),
			want: []string{"An error occurred. Venue Lol could not be listed.", "state: this field is required"},
		},
		{
			name: "unknown state", method: http.MethodPost, path: "/venues/create", form: venueForm("Lol", "ZZ"),
			want: []string{"state: this is not a valid US state"},
		},
	})

	venues, err := f.bookingRepo.QueryVenues(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, venues, 1)
	assert.Equal(t, "The Musical Hop", venues[0].Name)
	assert.Equal(t, []string{"Jazz", "Folk"}, venues[0].Genres)
	assert.True(t, venues[0].SeekingTalent)
}

func Test_fyyurSite_updateVenue(t *testing.T) {
	f := setup(t, nil)
	hop := testutil.CreateVenue(t, f.bookingRepo, "The Musical Hop", "San Francisco", "CA", "Jazz")
	path := fmt.Sprintf("/venues/%d", hop.ID)

	req, rec := newFormRequest(http.MethodPost, path+"/edit", venueForm("The Musical Stop", "CA"))
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, path, rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "flashes", cookies[0].Name)

	t.Run("flash shown once", func(t *testing.T) {
		req, rec := newFormRequest(http.MethodGet, path, nil)
		req.AddCookie(cookies[0])
		f.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Venue The Musical Stop was successfully updated!")
		assert.Contains(t, rec.Body.String(), "<h1>The Musical Stop</h1>")

		cleared := rec.Result().Cookies()
		require.Len(t, cleared, 1)
		assert.Equal(t, "flashes", cleared[0].Name)
		assert.Negative(t, cleared[0].MaxAge)
	})

	t.Run("invalid", func(t *testing.T) {
		req, rec := newFormRequest(http.MethodPost, path+"/edit", venueForm("", "CA"))
		f.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusFound, rec.Code)

		got, err := f.bookingRepo.GetVenue(req.Context(), hop.ID)
		require.NoError(t, err)
		assert.Equal(t, "The Musical Stop", got.Name)
	})

	t.Run("unknown venue", func(t *testing.T) {
		req, rec := newFormRequest(http.MethodPost, "/venues/999/edit", venueForm("Lol", "CA"))
		f.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_fyyurSite_deleteVenue(t *testing.T) {
	f := setup(t, nil)
	hop := testutil.CreateVenue(t, f.bookingRepo, "The Musical Hop", "San Francisco", "CA", "Jazz")
	guns := testutil.CreateArtist(t, f.bookingRepo, "Guns N Petals", "San Francisco", "CA", "Rock n Roll")
	testutil.CreateShow(t, f.bookingRepo, guns.ID, hop.ID, time.Now().Add(time.Hour))
	path := fmt.Sprintf("/venues/%d", hop.ID)

	runHTTPTests(t, f.app, []httpTest{
		{name: "deleted", method: http.MethodDelete, path: path, wantData: marchallObj(t, map[string]interface{}{"success": true, "deleted": hop.ID})},
		{name: "already deleted", method: http.MethodDelete, path: path, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
	})

	shows, err := f.bookingRepo.QueryShows(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, shows)
}

func Test_fyyurSite_artists(t *testing.T) {
	f := setup(t, nil)
	hop := testutil.CreateVenue(t, f.bookingRepo, "The Musical Hop", "San Francisco", "CA", "Jazz")
	guns := testutil.CreateArtist(t, f.bookingRepo, "Guns N Petals", "San Francisco", "CA", "Rock n Roll")
	testutil.CreateArtist(t, f.bookingRepo, "Matt Quevedo", "New York", "NY", "Jazz")
	testutil.CreateShow(t, f.bookingRepo, guns.ID, hop.ID, time.Now().Add(48*time.Hour))

	gunsPath := fmt.Sprintf("/artists/%d", guns.ID)
	artistForm := url.Values{
		"name":   {"The Wild Sax Band"},
		"city":   {"San Francisco"},
		"state":  {"CA"},
		"genres": {"Jazz", "Classical"},
	}

	runPageTests(t, f.app, []page{
		{name: "list", path: "/artists", want: []string{"Guns N Petals", "Matt Quevedo"}},
		{name: "detail", path: gunsPath, want: []string{"<title>Guns N Petals | Fyyur</title>", "1 Upcoming Show<", "0 Past Shows<", "The Musical Hop"}},
		{name: "unknown artist", path: "/artists/999", wantCode: http.StatusNotFound},
		{
			name: "search", method: http.MethodPost, path: "/artists/search", form: url.Values{"search_term": {"A"}},
			want: []string{`Number of search results for "A": 2`},
		},
		{
			name: "no match", method: http.MethodPost, path: "/artists/search", form: url.Values{"search_term": {"band"}},
			want: []string{`Number of search results for "band": 0`},
		},
		{name: "edit form", path: gunsPath + "/edit", want: []string{`value="Guns N Petals"`, `<option value="Rock n Roll" selected>`}},
		{
			name: "listed", method: http.MethodPost, path: "/artists/create", form: artistForm,
			want: []string{"Artist The Wild Sax Band was successfully listed!"},
		},
		{
			name: "invalid genre", method: http.MethodPost, path: "/artists/create",
			form: url.Values{"name": {"Lol"}, "city": {"Lol"}, "state": {"CA"}, "genres": {"Polka"}},
			want: []string{"An error occurred. Artist Lol could not be listed.", "genres[0]: unknown genre"},
		},
	})

	t.Run("update", func(t *testing.T) {
		req, rec := newFormRequest(http.MethodPost, gunsPath+"/edit", url.Values{
			"name":          {"Guns N Roses"},
			"city":          {"Los Angeles"},
			"state":         {"CA"},
			"genres":        {"Rock n Roll"},
			"seeking_venue": {"true"},
		})
		f.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
		assert.Equal(t, gunsPath, rec.Header().Get("Location"))

		got, err := f.bookingRepo.GetArtist(req.Context(), guns.ID)
		require.NoError(t, err)
		assert.Equal(t, "Guns N Roses", got.Name)
		assert.Equal(t, "Los Angeles", got.City)
		assert.True(t, got.SeekingVenue)
	})
}

func Test_fyyurSite_shows(t *testing.T) {
	f := setup(t, nil)
	hop := testutil.CreateVenue(t, f.bookingRepo, "The Musical Hop", "San Francisco", "CA", "Jazz")
	guns := testutil.CreateArtist(t, f.bookingRepo, "Guns N Petals", "San Francisco", "CA", "Rock n Roll")
	start := time.Date(2035, time.April, 1, 20, 0, 0, 0, time.UTC)

	newShow := func(artistID, venueID int, start string) url.Values {
		return url.Values{
			"artist_id":  {fmt.Sprint(artistID)},
			"venue_id":   {fmt.Sprint(venueID)},
			"start_time": {start},
		}
	}

	runPageTests(t, f.app, []page{
		{name: "new form", path: "/shows/create", want: []string{`name="start_time"`}},
		{
			name: "listed", method: http.MethodPost, path: "/shows/create", form: newShow(guns.ID, hop.ID, start.Format("2006-01-02 15:04:05")),
			want: []string{"Show was successfully listed!"},
		},
		{
			name: "unknown artist", method: http.MethodPost, path: "/shows/create", form: newShow(999, hop.ID, "2035-04-01 20:00"),
			want: []string{"An error occurred. Show could not be listed.", "artist_id: " + booking.ErrArtistNotFound.Error()},
		},
		{
			name: "invalid start time", method: http.MethodPost, path: "/shows/create", form: newShow(guns.ID, hop.ID, "tomorrow"),
			want: []string{"start_time: invalid date and time"},
		},
		{
			name: "list", path: "/shows",
			want: []string{"Guns N Petals", "The Musical Hop", "Sunday April, 1, 2035 at 8:00PM"},
		},
	})

	shows, err := f.bookingRepo.QueryShows(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.True(t, start.Equal(shows[0].StartTime))
}
