package sqlxrepos

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/fsnd-projects/fsnd/core"
	"github.com/fsnd-projects/fsnd/core/booking"
)

const (
	venuesTable  = "venues"
	artistsTable = "artists"
	showsTable   = "shows"
)

var (
	venueColumns = []string{
		"id", "name", "city", "state", "address", "phone", "genres", "image_link",
		"website_link", "facebook_link", "seeking_talent", "seeking_description", "created_at",
	}
	artistColumns = []string{
		"id", "name", "city", "state", "phone", "genres", "image_link",
		"website_link", "facebook_link", "seeking_venue", "seeking_description", "created_at",
	}
	showListingColumns = []string{
		"s.id", "s.venue_id", "v.name AS venue_name", "v.image_link AS venue_image_link",
		"s.artist_id", "a.name AS artist_name", "a.image_link AS artist_image_link", "s.start_time",
	}
)

type (
	venueRow struct {
		ID                 int            `db:"id"`
		Name               string         `db:"name"`
		City               string         `db:"city"`
		State              string         `db:"state"`
		Address            string         `db:"address"`
		Phone              null.String    `db:"phone"`
		Genres             types.JSONText `db:"genres"`
		ImageLink          null.String    `db:"image_link"`
		WebsiteLink        null.String    `db:"website_link"`
		FacebookLink       null.String    `db:"facebook_link"`
		SeekingTalent      bool           `db:"seeking_talent"`
		SeekingDescription null.String    `db:"seeking_description"`
		CreatedAt          time.Time      `db:"created_at"`
	}

	artistRow struct {
		ID                 int            `db:"id"`
		Name               string         `db:"name"`
		City               string         `db:"city"`
		State              string         `db:"state"`
		Phone              null.String    `db:"phone"`
		Genres             types.JSONText `db:"genres"`
		ImageLink          null.String    `db:"image_link"`
		WebsiteLink        null.String    `db:"website_link"`
		FacebookLink       null.String    `db:"facebook_link"`
		SeekingVenue       bool           `db:"seeking_venue"`
		SeekingDescription null.String    `db:"seeking_description"`
		CreatedAt          time.Time      `db:"created_at"`
	}

	showListingRow struct {
		ID              int         `db:"id"`
		VenueID         int         `db:"venue_id"`
		VenueName       string      `db:"venue_name"`
		VenueImageLink  null.String `db:"venue_image_link"`
		ArtistID        int         `db:"artist_id"`
		ArtistName      string      `db:"artist_name"`
		ArtistImageLink null.String `db:"artist_image_link"`
		StartTime       time.Time   `db:"start_time"`
	}
)

type bookingRepository struct {
	repo
}

var _ booking.Repository = (*bookingRepository)(nil) // interface compliance check

func NewBookingRepository(exec core.DBExecutor) *bookingRepository {
	return &bookingRepository{repo{exec: exec}}
}

func optString(s string) null.String {
	return null.NewString(s, s != "")
}

func encodeGenres(genres []string) (string, error) {
	if genres == nil {
		genres = []string{}
	}
	data, err := json.Marshal(genres)
	return string(data), errors.Wrap(err, "encoding genres")
}

func decodeGenres(data types.JSONText) ([]string, error) {
	genres := make([]string, 0)
	if len(data) == 0 {
		return genres, nil
	}
	err := data.Unmarshal(&genres)
	return genres, errors.Wrap(err, "decoding genres")
}

func (r bookingRepository) unboilVenue(row venueRow) (booking.Venue, error) {
	genres, err := decodeGenres(row.Genres)
	if err != nil {
		return booking.Venue{}, err
	}
	return booking.Venue{
		ID:                 row.ID,
		Name:               row.Name,
		City:               row.City,
		State:              row.State,
		Address:            row.Address,
		Phone:              row.Phone.String,
		Genres:             genres,
		ImageLink:          row.ImageLink.String,
		WebsiteLink:        row.WebsiteLink.String,
		FacebookLink:       row.FacebookLink.String,
		SeekingTalent:      row.SeekingTalent,
		SeekingDescription: row.SeekingDescription.String,
		CreatedAt:          row.CreatedAt.UTC(),
	}, nil
}

func (r bookingRepository) unboilArtist(row artistRow) (booking.Artist, error) {
	genres, err := decodeGenres(row.Genres)
	if err != nil {
		return booking.Artist{}, err
	}
	return booking.Artist{
		ID:                 row.ID,
		Name:               row.Name,
		City:               row.City,
		State:              row.State,
		Phone:              row.Phone.String,
		Genres:             genres,
		ImageLink:          row.ImageLink.String,
		WebsiteLink:        row.WebsiteLink.String,
		FacebookLink:       row.FacebookLink.String,
		SeekingVenue:       row.SeekingVenue,
		SeekingDescription: row.SeekingDescription.String,
		CreatedAt:          row.CreatedAt.UTC(),
	}, nil
}

// venueValues maps the writable venue columns to the values of v.
func venueValues(v booking.Venue) (map[string]interface{}, error) {
	genres, err := encodeGenres(v.Genres)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"name":                v.Name,
		"city":                v.City,
		"state":               v.State,
		"address":             v.Address,
		"phone":               optString(v.Phone),
		"genres":              genres,
		"image_link":          optString(v.ImageLink),
		"website_link":        optString(v.WebsiteLink),
		"facebook_link":       optString(v.FacebookLink),
		"seeking_talent":      v.SeekingTalent,
		"seeking_description": optString(v.SeekingDescription),
	}, nil
}

func artistValues(a booking.Artist) (map[string]interface{}, error) {
	genres, err := encodeGenres(a.Genres)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"name":                a.Name,
		"city":                a.City,
		"state":               a.State,
		"phone":               optString(a.Phone),
		"genres":              genres,
		"image_link":          optString(a.ImageLink),
		"website_link":        optString(a.WebsiteLink),
		"facebook_link":       optString(a.FacebookLink),
		"seeking_venue":       a.SeekingVenue,
		"seeking_description": optString(a.SeekingDescription),
	}, nil
}

// Venues

func (r bookingRepository) QueryVenues(ctx context.Context, search string, exec ...core.DBExecutor) ([]booking.Venue, error) {
	b := sq.Select(venueColumns...).From(venuesTable).OrderBy("state ASC", "city ASC", "name ASC", "id ASC")
	if search != "" {
		b = b.Where(containsFold("name", search))
	}

	var rows []venueRow
	if err := r.selectAll(ctx, r.getExec(exec), &rows, b); err != nil {
		return nil, errors.Wrap(err, "selecting venues")
	}
	venues := make([]booking.Venue, 0, len(rows))
	for _, row := range rows {
		v, err := r.unboilVenue(row)
		if err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, nil
}

func (r bookingRepository) GetVenue(ctx context.Context, id int, exec ...core.DBExecutor) (booking.Venue, error) {
	var row venueRow
	b := sq.Select(venueColumns...).From(venuesTable).Where(sq.Eq{"id": id})
	if err := r.get(ctx, r.getExec(exec), &row, b); err != nil {
		return booking.Venue{}, trapNoRowsErr(err, booking.ErrVenueNotFound, "selecting venue")
	}
	return r.unboilVenue(row)
}

func (r bookingRepository) CreateVenue(ctx context.Context, v booking.Venue, exec ...core.DBExecutor) (booking.Venue, error) {
	vals, err := venueValues(v)
	if err != nil {
		return booking.Venue{}, err
	}
	v.CreatedAt = dbTime(v.CreatedAt)
	vals["created_at"] = v.CreatedAt

	b := sq.Insert(venuesTable).SetMap(vals).Suffix("RETURNING id")
	if err = r.get(ctx, r.getExec(exec), &v.ID, b); err != nil {
		return booking.Venue{}, errors.Wrap(err, "inserting venue")
	}
	return v, nil
}

func (r bookingRepository) UpdateVenue(ctx context.Context, v booking.Venue, exec ...core.DBExecutor) (booking.Venue, error) {
	vals, err := venueValues(v)
	if err != nil {
		return booking.Venue{}, err
	}
	cnt, err := r.execute(ctx, r.getExec(exec), sq.Update(venuesTable).SetMap(vals).Where(sq.Eq{"id": v.ID}))
	if err != nil {
		return booking.Venue{}, errors.Wrap(err, "updating venue")
	}
	if cnt == 0 {
		return booking.Venue{}, booking.ErrVenueNotFound
	}
	return v, nil
}

func (r bookingRepository) DeleteVenuesByID(ctx context.Context, ids []int, exec ...core.DBExecutor) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cnt, err := r.execute(ctx, r.getExec(exec), sq.Delete(venuesTable).Where(sq.Eq{"id": ids}))
	return cnt, errors.Wrap(err, "deleting venues")
}

// Artists

func (r bookingRepository) QueryArtists(ctx context.Context, search string, exec ...core.DBExecutor) ([]booking.Artist, error) {
	b := sq.Select(artistColumns...).From(artistsTable).OrderBy("name ASC", "id ASC")
	if search != "" {
		b = b.Where(containsFold("name", search))
	}

	var rows []artistRow
	if err := r.selectAll(ctx, r.getExec(exec), &rows, b); err != nil {
		return nil, errors.Wrap(err, "selecting artists")
	}
	artists := make([]booking.Artist, 0, len(rows))
	for _, row := range rows {
		a, err := r.unboilArtist(row)
		if err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	return artists, nil
}

func (r bookingRepository) GetArtist(ctx context.Context, id int, exec ...core.DBExecutor) (booking.Artist, error) {
	var row artistRow
	b := sq.Select(artistColumns...).From(artistsTable).Where(sq.Eq{"id": id})
	if err := r.get(ctx, r.getExec(exec), &row, b); err != nil {
		return booking.Artist{}, trapNoRowsErr(err, booking.ErrArtistNotFound, "selecting artist")
	}
	return r.unboilArtist(row)
}

func (r bookingRepository) CreateArtist(ctx context.Context, a booking.Artist, exec ...core.DBExecutor) (booking.Artist, error) {
	vals, err := artistValues(a)
	if err != nil {
		return booking.Artist{}, err
	}
	a.CreatedAt = dbTime(a.CreatedAt)
	vals["created_at"] = a.CreatedAt

	b := sq.Insert(artistsTable).SetMap(vals).Suffix("RETURNING id")
	if err = r.get(ctx, r.getExec(exec), &a.ID, b); err != nil {
		return booking.Artist{}, errors.Wrap(err, "inserting artist")
	}
	return a, nil
}

func (r bookingRepository) UpdateArtist(ctx context.Context, a booking.Artist, exec ...core.DBExecutor) (booking.Artist, error) {
	vals, err := artistValues(a)
	if err != nil {
		return booking.Artist{}, err
	}
	cnt, err := r.execute(ctx, r.getExec(exec), sq.Update(artistsTable).SetMap(vals).Where(sq.Eq{"id": a.ID}))
	if err != nil {
		return booking.Artist{}, errors.Wrap(err, "updating artist")
	}
	if cnt == 0 {
		return booking.Artist{}, booking.ErrArtistNotFound
	}
	return a, nil
}

// Shows

func (r bookingRepository) QueryShows(ctx context.Context, filter *booking.ShowFilter, exec ...core.DBExecutor) ([]booking.ShowListing, error) {
	b := sq.Select(showListingColumns...).
		From(showsTable + " s").
		Join(venuesTable + " v ON v.id = s.venue_id").
		Join(artistsTable + " a ON a.id = s.artist_id").
		OrderBy("s.start_time ASC", "s.id ASC")
	if filter != nil {
		if filter.VenueID > 0 {
			b = b.Where(sq.Eq{"s.venue_id": filter.VenueID})
		}
		if filter.ArtistID > 0 {
			b = b.Where(sq.Eq{"s.artist_id": filter.ArtistID})
		}
	}

	var rows []showListingRow
	if err := r.selectAll(ctx, r.getExec(exec), &rows, b); err != nil {
		return nil, errors.Wrap(err, "selecting shows")
	}
	shows := make([]booking.ShowListing, 0, len(rows))
	for _, row := range rows {
		shows = append(shows, booking.ShowListing{
			ID:              row.ID,
			VenueID:         row.VenueID,
			VenueName:       row.VenueName,
			VenueImageLink:  row.VenueImageLink.String,
			ArtistID:        row.ArtistID,
			ArtistName:      row.ArtistName,
			ArtistImageLink: row.ArtistImageLink.String,
			StartTime:       row.StartTime.UTC(),
		})
	}
	return shows, nil
}

func (r bookingRepository) CountUpcomingShows(ctx context.Context, by booking.ShowOwner, since time.Time, exec ...core.DBExecutor) (map[int]int, error) {
	if by != booking.ByVenue && by != booking.ByArtist {
		return nil, errors.Errorf("unknown show owner: %q", by)
	}
	col := string(by)
	b := sq.Select(col+" AS id", "COUNT(*) AS cnt").
		From(showsTable).
		Where(sq.Gt{"start_time": dbTime(since)}).
		GroupBy(col)

	var rows []struct {
		ID  int `db:"id"`
		Cnt int `db:"cnt"`
	}
	if err := r.selectAll(ctx, r.getExec(exec), &rows, b); err != nil {
		return nil, errors.Wrap(err, "counting upcoming shows")
	}
	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Cnt
	}
	return counts, nil
}

func (r bookingRepository) CreateShow(ctx context.Context, s booking.Show, exec ...core.DBExecutor) (booking.Show, error) {
	s.StartTime = dbTime(s.StartTime)
	b := sq.Insert(showsTable).
		Columns("artist_id", "venue_id", "start_time").
		Values(s.ArtistID, s.VenueID, s.StartTime).
		Suffix("RETURNING id")
	if err := r.get(ctx, r.getExec(exec), &s.ID, b); err != nil {
		return booking.Show{}, errors.Wrap(err, "inserting show")
	}
	return s, nil
}
