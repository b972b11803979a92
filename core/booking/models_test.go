package booking

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsnd-projects/fsnd/core"
)

func TestVenueForm_Validate(t *testing.T) {
	validate := NewTestValidator()
	valid := func() VenueForm {
		return VenueForm{
			Name:               " The Musical Hop ",
			City:               "San Francisco",
			State:              "CA",
			Address:            "1015 Folsom Street",
			Genres:             []string{"Jazz", "Reggae"},
			WebsiteLink:        "https://www.themusicalhop.com",
			SeekingDescription: "We are on the lookout for a local artist.",
		}
	}

	tests := []struct {
		name      string
		modify    func(f *VenueForm)
		wantField string
	}{
		{name: "valid", modify: func(f *VenueForm) {}},
		{name: "blank name", modify: func(f *VenueForm) { f.Name = "  " }, wantField: "name"},
		{name: "unknown state", modify: func(f *VenueForm) { f.State = "ZZ" }, wantField: "state"},
		{name: "no genres", modify: func(f *VenueForm) { f.Genres = nil }, wantField: "genres"},
		{name: "unknown genre", modify: func(f *VenueForm) { f.Genres = []string{"Jazz", "Polka"} }, wantField: "genres[1]"},
		{name: "invalid link", modify: func(f *VenueForm) { f.FacebookLink = "not a link" }, wantField: "facebook_link"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid()
			tt.modify(&f)
			err := f.Validate(validate)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, "The Musical Hop", f.Name)
				return
			}
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "want validator.ValidationErrors, got %v", err)
			assert.Equal(t, tt.wantField, vErrs[0].Field())
		})
	}
}

func TestVenueForm_apply(t *testing.T) {
	f := VenueForm{Name: "Hop", SeekingTalent: true, SeekingDescription: `<script>alert(1)</script>Looking for <b>jazz</b> bands`}
	v := f.apply(Venue{ID: 3})
	assert.Equal(t, 3, v.ID)
	assert.Equal(t, "Hop", v.Name)
	assert.Equal(t, "Looking for jazz bands", v.SeekingDescription)
	assert.Equal(t, VenueFormFrom(v).Name, "Hop")
}

func TestShowForm_Validate(t *testing.T) {
	validate := NewTestValidator()
	want := time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		start     string
		wantStart time.Time
		wantErr   bool
	}{
		{name: "default format", start: "2035-04-01 20:00:00", wantStart: want},
		{name: "datetime-local", start: "2035-04-01T20:00", wantStart: want},
		{name: "rfc3339", start: "2035-04-01T22:00:00+02:00", wantStart: want},
		{name: "missing", start: "", wantErr: true},
		{name: "garbage", start: "next friday", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ShowForm{ArtistID: 1, VenueID: 2, StartTime: tt.start}
			err := f.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(f.Start()), "start = %v; want %v", f.Start(), tt.wantStart)
		})
	}

	f := ShowForm{ArtistID: 1, VenueID: 2, StartTime: "yesterday"}
	var vErr *core.ValidationError
	require.True(t, errors.As(f.Validate(validate), &vErr))
	assert.Equal(t, "start_time", vErr.Fields[0].Field)
}

func Test_splitShows(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	before := ShowListing{ID: 1, StartTime: now.Add(-time.Hour)}
	atNow := ShowListing{ID: 2, StartTime: now}
	after := ShowListing{ID: 3, StartTime: now.Add(time.Second)}

	past, upcoming := splitShows([]ShowListing{before, atNow, after}, now)
	assert.Equal(t, []ShowListing{before, atNow}, past)
	assert.Equal(t, []ShowListing{after}, upcoming)

	past, upcoming = splitShows(nil, now)
	assert.NotNil(t, past)
	assert.NotNil(t, upcoming)
}
