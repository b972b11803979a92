package booking

import (
	"context"
	"html"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"

	"github.com/fsnd-projects/fsnd/core"
)

var (
	NowFunc = time.Now // mockable

	stripPolicy = bluemonday.StrictPolicy()

	// errors
	ErrVenueNotFound  = errors.New("venue not found")
	ErrArtistNotFound = errors.New("artist not found")
)

// ShowOwner names the side of a show that upcoming shows are counted for.
type ShowOwner string

const (
	ByVenue  ShowOwner = "venue_id"
	ByArtist ShowOwner = "artist_id"
)

type (
	Repository interface {
		// QueryVenues returns venues whose name contains search, ordered by state, city and name.
		QueryVenues(ctx context.Context, search string, exec ...core.DBExecutor) ([]Venue, error)
		GetVenue(ctx context.Context, id int, exec ...core.DBExecutor) (Venue, error)
		CreateVenue(ctx context.Context, v Venue, exec ...core.DBExecutor) (Venue, error)
		UpdateVenue(ctx context.Context, v Venue, exec ...core.DBExecutor) (Venue, error)
		DeleteVenuesByID(ctx context.Context, ids []int, exec ...core.DBExecutor) (int, error)

		// QueryArtists returns artists whose name contains search, ordered by name.
		QueryArtists(ctx context.Context, search string, exec ...core.DBExecutor) ([]Artist, error)
		GetArtist(ctx context.Context, id int, exec ...core.DBExecutor) (Artist, error)
		CreateArtist(ctx context.Context, a Artist, exec ...core.DBExecutor) (Artist, error)
		UpdateArtist(ctx context.Context, a Artist, exec ...core.DBExecutor) (Artist, error)

		// QueryShows returns the shows matching filter ordered by start time.
		QueryShows(ctx context.Context, filter *ShowFilter, exec ...core.DBExecutor) ([]ShowListing, error)
		// CountUpcomingShows counts the shows starting after since, keyed by venue or artist id.
		CountUpcomingShows(ctx context.Context, by ShowOwner, since time.Time, exec ...core.DBExecutor) (map[int]int, error)
		CreateShow(ctx context.Context, s Show, exec ...core.DBExecutor) (Show, error)
	}

	ServiceInterface interface {
		ListAreas(ctx context.Context) ([]Area, error)
		SearchVenues(ctx context.Context, term string) (SearchResult, error)
		GetVenue(ctx context.Context, id int) (VenueDetail, error)
		CreateVenue(ctx context.Context, form VenueForm) (Venue, error)
		UpdateVenue(ctx context.Context, id int, form VenueForm) (Venue, error)
		DeleteVenue(ctx context.Context, id int) error

		ListArtists(ctx context.Context) ([]Artist, error)
		SearchArtists(ctx context.Context, term string) (SearchResult, error)
		GetArtist(ctx context.Context, id int) (ArtistDetail, error)
		CreateArtist(ctx context.Context, form ArtistForm) (Artist, error)
		UpdateArtist(ctx context.Context, id int, form ArtistForm) (Artist, error)

		ListShows(ctx context.Context) ([]ShowListing, error)
		CreateShow(ctx context.Context, form ShowForm) (Show, error)
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(db core.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

// now is truncated to the second as show times are stored that way.
func now() time.Time {
	return NowFunc().UTC().Truncate(time.Second)
}

// sanitize strips every html tag from free text. Entities are unescaped back as templates escape on output.
func sanitize(s string) string {
	return html.UnescapeString(stripPolicy.Sanitize(s))
}

// ListAreas groups the venues by city and state, each with its number of upcoming shows.
func (svc *Service) ListAreas(ctx context.Context) ([]Area, error) {
	venues, err := svc.repo.QueryVenues(ctx, "")
	if err != nil {
		return nil, errors.Wrap(err, "querying venues")
	}
	counts, err := svc.repo.CountUpcomingShows(ctx, ByVenue, now())
	if err != nil {
		return nil, errors.Wrap(err, "counting upcoming shows")
	}

	areas := make([]Area, 0)
	for _, v := range venues {
		last := len(areas) - 1
		if last < 0 || areas[last].City != v.City || areas[last].State != v.State {
			areas = append(areas, Area{City: v.City, State: v.State})
			last++
		}
		areas[last].Venues = append(areas[last].Venues, Summary{ID: v.ID, Name: v.Name, NumUpcomingShows: counts[v.ID]})
	}
	return areas, nil
}

func (svc *Service) SearchVenues(ctx context.Context, term string) (SearchResult, error) {
	venues, err := svc.repo.QueryVenues(ctx, core.CleanString(term))
	if err != nil {
		return SearchResult{}, errors.Wrap(err, "searching venues")
	}
	counts, err := svc.repo.CountUpcomingShows(ctx, ByVenue, now())
	if err != nil {
		return SearchResult{}, errors.Wrap(err, "counting upcoming shows")
	}

	res := SearchResult{Count: len(venues), Data: make([]Summary, 0, len(venues))}
	for _, v := range venues {
		res.Data = append(res.Data, Summary{ID: v.ID, Name: v.Name, NumUpcomingShows: counts[v.ID]})
	}
	return res, nil
}

func (svc *Service) GetVenue(ctx context.Context, id int) (VenueDetail, error) {
	venue, err := svc.repo.GetVenue(ctx, id)
	if err != nil {
		return VenueDetail{}, errors.Wrap(err, "finding venue")
	}
	shows, err := svc.repo.QueryShows(ctx, &ShowFilter{VenueID: id})
	if err != nil {
		return VenueDetail{}, errors.Wrap(err, "querying venue shows")
	}

	past, upcoming := splitShows(shows, now())
	return VenueDetail{
		Venue:              venue,
		PastShows:          past,
		UpcomingShows:      upcoming,
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}, nil
}

func (svc *Service) CreateVenue(ctx context.Context, form VenueForm) (Venue, error) {
	venue, err := svc.repo.CreateVenue(ctx, form.apply(Venue{CreatedAt: now()}))
	return venue, errors.Wrap(err, "inserting venue")
}

func (svc *Service) UpdateVenue(ctx context.Context, id int, form VenueForm) (Venue, error) {
	var updated Venue
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		orig, err := svc.repo.GetVenue(ctx, id, tx)
		if err != nil {
			return errors.Wrap(err, "finding venue")
		}
		updated, err = svc.repo.UpdateVenue(ctx, form.apply(orig), tx)
		return errors.Wrap(err, "updating venue")
	})
	return updated, err
}

// DeleteVenue deletes a venue along with its shows.
func (svc *Service) DeleteVenue(ctx context.Context, id int) error {
	cnt, err := svc.repo.DeleteVenuesByID(ctx, []int{id})
	if err != nil {
		return errors.Wrap(err, "deleting venue")
	}
	if cnt == 0 {
		return ErrVenueNotFound
	}
	return nil
}

func (svc *Service) ListArtists(ctx context.Context) ([]Artist, error) {
	artists, err := svc.repo.QueryArtists(ctx, "")
	return artists, errors.Wrap(err, "querying artists")
}

func (svc *Service) SearchArtists(ctx context.Context, term string) (SearchResult, error) {
	artists, err := svc.repo.QueryArtists(ctx, core.CleanString(term))
	if err != nil {
		return SearchResult{}, errors.Wrap(err, "searching artists")
	}
	counts, err := svc.repo.CountUpcomingShows(ctx, ByArtist, now())
	if err != nil {
		return SearchResult{}, errors.Wrap(err, "counting upcoming shows")
	}

	res := SearchResult{Count: len(artists), Data: make([]Summary, 0, len(artists))}
	for _, a := range artists {
		res.Data = append(res.Data, Summary{ID: a.ID, Name: a.Name, NumUpcomingShows: counts[a.ID]})
	}
	return res, nil
}

func (svc *Service) GetArtist(ctx context.Context, id int) (ArtistDetail, error) {
	artist, err := svc.repo.GetArtist(ctx, id)
	if err != nil {
		return ArtistDetail{}, errors.Wrap(err, "finding artist")
	}
	shows, err := svc.repo.QueryShows(ctx, &ShowFilter{ArtistID: id})
	if err != nil {
		return ArtistDetail{}, errors.Wrap(err, "querying artist shows")
	}

	past, upcoming := splitShows(shows, now())
	return ArtistDetail{
		Artist:             artist,
		PastShows:          past,
		UpcomingShows:      upcoming,
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}, nil
}

func (svc *Service) CreateArtist(ctx context.Context, form ArtistForm) (Artist, error) {
	artist, err := svc.repo.CreateArtist(ctx, form.apply(Artist{CreatedAt: now()}))
	return artist, errors.Wrap(err, "inserting artist")
}

func (svc *Service) UpdateArtist(ctx context.Context, id int, form ArtistForm) (Artist, error) {
	var updated Artist
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		orig, err := svc.repo.GetArtist(ctx, id, tx)
		if err != nil {
			return errors.Wrap(err, "finding artist")
		}
		updated, err = svc.repo.UpdateArtist(ctx, form.apply(orig), tx)
		return errors.Wrap(err, "updating artist")
	})
	return updated, err
}

func (svc *Service) ListShows(ctx context.Context) ([]ShowListing, error) {
	shows, err := svc.repo.QueryShows(ctx, nil)
	return shows, errors.Wrap(err, "querying shows")
}

// CreateShow lists a show once its artist and venue are known to exist.
func (svc *Service) CreateShow(ctx context.Context, form ShowForm) (Show, error) {
	var created Show
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if _, err := svc.repo.GetArtist(ctx, form.ArtistID, tx); err != nil {
			if errors.Cause(err) == ErrArtistNotFound {
				return core.NewValidationError(err, core.FieldError{Field: "artist_id", Error: err.Error()})
			}
			return errors.Wrap(err, "finding artist")
		}
		if _, err := svc.repo.GetVenue(ctx, form.VenueID, tx); err != nil {
			if errors.Cause(err) == ErrVenueNotFound {
				return core.NewValidationError(err, core.FieldError{Field: "venue_id", Error: err.Error()})
			}
			return errors.Wrap(err, "finding venue")
		}

		var err error
		created, err = svc.repo.CreateShow(ctx, Show{
			ArtistID:  form.ArtistID,
			VenueID:   form.VenueID,
			StartTime: form.Start(),
		}, tx)
		return errors.Wrap(err, "inserting show")
	})
	return created, err
}
