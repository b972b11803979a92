package booking

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/fsnd-projects/fsnd/core"
)

type Venue struct {
	ID                 int       `json:"id"`
	Name               string    `json:"name"`
	City               string    `json:"city"`
	State              string    `json:"state"`
	Address            string    `json:"address"`
	Phone              string    `json:"phone"`
	Genres             []string  `json:"genres"`
	ImageLink          string    `json:"image_link"`
	WebsiteLink        string    `json:"website_link"`
	FacebookLink       string    `json:"facebook_link"`
	SeekingTalent      bool      `json:"seeking_talent"`
	SeekingDescription string    `json:"seeking_description"`
	CreatedAt          time.Time `json:"created_at"`
}

type Artist struct {
	ID                 int       `json:"id"`
	Name               string    `json:"name"`
	City               string    `json:"city"`
	State              string    `json:"state"`
	Phone              string    `json:"phone"`
	Genres             []string  `json:"genres"`
	ImageLink          string    `json:"image_link"`
	WebsiteLink        string    `json:"website_link"`
	FacebookLink       string    `json:"facebook_link"`
	SeekingVenue       bool      `json:"seeking_venue"`
	SeekingDescription string    `json:"seeking_description"`
	CreatedAt          time.Time `json:"created_at"`
}

type Show struct {
	ID        int       `json:"id"`
	ArtistID  int       `json:"artist_id"`
	VenueID   int       `json:"venue_id"`
	StartTime time.Time `json:"start_time"`
}

// ShowListing is a Show along with the names and images of its venue and artist.
type ShowListing struct {
	ID              int       `json:"id"`
	VenueID         int       `json:"venue_id"`
	VenueName       string    `json:"venue_name"`
	VenueImageLink  string    `json:"venue_image_link"`
	ArtistID        int       `json:"artist_id"`
	ArtistName      string    `json:"artist_name"`
	ArtistImageLink string    `json:"artist_image_link"`
	StartTime       time.Time `json:"start_time"`
}

// ShowFilter applies an AND on its set fields.
type ShowFilter struct {
	VenueID  int
	ArtistID int
}

// Summary is the short form of a venue or an artist used in listings and search results.
type Summary struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

type Area struct {
	City   string    `json:"city"`
	State  string    `json:"state"`
	Venues []Summary `json:"venues"`
}

type SearchResult struct {
	Count int       `json:"count"`
	Data  []Summary `json:"data"`
}

type (
	VenueDetail struct {
		Venue
		PastShows          []ShowListing `json:"past_shows"`
		UpcomingShows      []ShowListing `json:"upcoming_shows"`
		PastShowsCount     int           `json:"past_shows_count"`
		UpcomingShowsCount int           `json:"upcoming_shows_count"`
	}

	ArtistDetail struct {
		Artist
		PastShows          []ShowListing `json:"past_shows"`
		UpcomingShows      []ShowListing `json:"upcoming_shows"`
		PastShowsCount     int           `json:"past_shows_count"`
		UpcomingShowsCount int           `json:"upcoming_shows_count"`
	}
)

// splitShows partitions shows at now: a show is past when it does not start after now.
func splitShows(shows []ShowListing, now time.Time) (past, upcoming []ShowListing) {
	past, upcoming = []ShowListing{}, []ShowListing{}
	for _, s := range shows {
		if s.StartTime.After(now) {
			upcoming = append(upcoming, s)
		} else {
			past = append(past, s)
		}
	}
	return past, upcoming
}

// VenueForm is the html form used to create or edit a Venue.
type VenueForm struct {
	Name               string   `form:"name" validate:"required,notblank,max=120"`
	City               string   `form:"city" validate:"required,notblank,max=120"`
	State              string   `form:"state" validate:"required,usstate"`
	Address            string   `form:"address" validate:"required,notblank,max=120"`
	Phone              string   `form:"phone" validate:"omitempty,max=120"`
	Genres             []string `form:"genres" validate:"required,min=1,dive,genre"`
	ImageLink          string   `form:"image_link" validate:"omitempty,url,max=500"`
	WebsiteLink        string   `form:"website_link" validate:"omitempty,url,max=120"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,url,max=120"`
	SeekingTalent      bool     `form:"seeking_talent"`
	SeekingDescription string   `form:"seeking_description" validate:"max=500"`
}

func (f *VenueForm) Validate(validate *validator.Validate) error {
	f.Name = core.CleanString(f.Name)
	f.City = core.CleanString(f.City)
	f.State = core.CleanString(f.State)
	f.Address = core.CleanString(f.Address)
	f.Phone = core.CleanString(f.Phone)
	f.ImageLink = core.CleanString(f.ImageLink)
	f.WebsiteLink = core.CleanString(f.WebsiteLink)
	f.FacebookLink = core.CleanString(f.FacebookLink)
	f.SeekingDescription = core.CleanString(f.SeekingDescription)
	return validate.Struct(f)
}

func (f VenueForm) apply(v Venue) Venue {
	v.Name = f.Name
	v.City = f.City
	v.State = f.State
	v.Address = f.Address
	v.Phone = f.Phone
	v.Genres = f.Genres
	v.ImageLink = f.ImageLink
	v.WebsiteLink = f.WebsiteLink
	v.FacebookLink = f.FacebookLink
	v.SeekingTalent = f.SeekingTalent
	v.SeekingDescription = sanitize(f.SeekingDescription)
	return v
}

// VenueFormFrom pre-populates an edit form.
func VenueFormFrom(v Venue) VenueForm {
	return VenueForm{
		Name:               v.Name,
		City:               v.City,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		Genres:             v.Genres,
		ImageLink:          v.ImageLink,
		WebsiteLink:        v.WebsiteLink,
		FacebookLink:       v.FacebookLink,
		SeekingTalent:      v.SeekingTalent,
		SeekingDescription: v.SeekingDescription,
	}
}

// ArtistForm is the html form used to create or edit an Artist.
type ArtistForm struct {
	Name               string   `form:"name" validate:"required,notblank,max=120"`
	City               string   `form:"city" validate:"required,notblank,max=120"`
	State              string   `form:"state" validate:"required,usstate"`
	Phone              string   `form:"phone" validate:"omitempty,max=120"`
	Genres             []string `form:"genres" validate:"required,min=1,dive,genre"`
	ImageLink          string   `form:"image_link" validate:"omitempty,url,max=500"`
	WebsiteLink        string   `form:"website_link" validate:"omitempty,url,max=120"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,url,max=120"`
	SeekingVenue       bool     `form:"seeking_venue"`
	SeekingDescription string   `form:"seeking_description" validate:"max=500"`
}

func (f *ArtistForm) Validate(validate *validator.Validate) error {
	f.Name = core.CleanString(f.Name)
	f.City = core.CleanString(f.City)
	f.State = core.CleanString(f.State)
	f.Phone = core.CleanString(f.Phone)
	f.ImageLink = core.CleanString(f.ImageLink)
	f.WebsiteLink = core.CleanString(f.WebsiteLink)
	f.FacebookLink = core.CleanString(f.FacebookLink)
	f.SeekingDescription = core.CleanString(f.SeekingDescription)
	return validate.Struct(f)
}

func (f ArtistForm) apply(a Artist) Artist {
	a.Name = f.Name
	a.City = f.City
	a.State = f.State
	a.Phone = f.Phone
	a.Genres = f.Genres
	a.ImageLink = f.ImageLink
	a.WebsiteLink = f.WebsiteLink
	a.FacebookLink = f.FacebookLink
	a.SeekingVenue = f.SeekingVenue
	a.SeekingDescription = sanitize(f.SeekingDescription)
	return a
}

func ArtistFormFrom(a Artist) ArtistForm {
	return ArtistForm{
		Name:               a.Name,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		Genres:             a.Genres,
		ImageLink:          a.ImageLink,
		WebsiteLink:        a.WebsiteLink,
		FacebookLink:       a.FacebookLink,
		SeekingVenue:       a.SeekingVenue,
		SeekingDescription: a.SeekingDescription,
	}
}

// accepted start_time layouts, as sent by a datetime-local input or typed by hand
var startTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

// ShowForm is the html form used to list a new Show.
type ShowForm struct {
	ArtistID  int    `form:"artist_id" validate:"required,min=1"`
	VenueID   int    `form:"venue_id" validate:"required,min=1"`
	StartTime string `form:"start_time" validate:"required"`

	start time.Time
}

func (f *ShowForm) Validate(validate *validator.Validate) error {
	f.StartTime = core.CleanString(f.StartTime)
	if err := validate.Struct(f); err != nil {
		return err
	}
	start, err := parseStartTime(f.StartTime)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "start_time", Error: "invalid date and time"})
	}
	f.start = start
	return nil
}

// Start returns the parsed start time; zero until Validate succeeded.
func (f ShowForm) Start() time.Time {
	return f.start
}

func parseStartTime(s string) (time.Time, error) {
	for _, layout := range startTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC().Truncate(time.Second), nil
		}
	}
	return time.Time{}, errors.Errorf("unknown date format: %q", s)
}
