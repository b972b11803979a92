package testutil

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/fsnd-projects/fsnd/core"
	"github.com/fsnd-projects/fsnd/core/booking"
	"github.com/fsnd-projects/fsnd/core/coffee"
	"github.com/fsnd-projects/fsnd/core/trivia"
	logsvc "github.com/fsnd-projects/fsnd/services/logger"
	"github.com/fsnd-projects/fsnd/storage/database"
)

// NewConfig returns the configuration used in tests: an in-memory sqlite database.
func NewConfig() *core.Config {
	conf := core.NewConfig()
	conf.TestMode = true
	conf.Debug = true
	conf.Database.Engine = database.SQLite
	conf.Database.Path = ":memory:"
	conf.Server.DisableReqLogs = true
	return conf
}

// NewLogger returns a logger that reports nowhere.
func NewLogger() core.Logger {
	l := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), NewConfig())
	l.Enable(false)
	return l
}

// NewValidator returns a validator with every custom tag registered, as the API sets it up.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	booking.InitValidators(validate, translator)
	return validate, translator
}

// PrepareDB opens a fresh in-memory database with every migration applied. It is closed with the test.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conf := NewConfig()
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("database.Open(): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db.DB, conf.Database.Engine); err != nil {
		t.Fatalf("database.Migrate(): %v", err)
	}
	return db
}

func CreateCategory(t *testing.T, repo trivia.Repository, typ string) trivia.Category {
	t.Helper()
	cat, err := repo.CreateCategory(context.Background(), trivia.Category{Type: typ})
	if err != nil {
		t.Fatalf("createCategory() failed: %v", err)
	}
	return cat
}

func CreateQuestion(t *testing.T, repo trivia.Repository, question, answer string, categoryID, difficulty int) trivia.Question {
	t.Helper()
	q, err := repo.CreateQuestion(context.Background(), trivia.Question{
		Question:   question,
		Answer:     answer,
		Category:   categoryID,
		Difficulty: difficulty,
	})
	if err != nil {
		t.Fatalf("createQuestion() failed: %v", err)
	}
	return q
}

func CreateDrink(t *testing.T, repo coffee.Repository, title string, recipe ...coffee.Ingredient) coffee.Drink {
	t.Helper()
	d, err := repo.CreateDrink(context.Background(), coffee.Drink{Title: title, Recipe: recipe})
	if err != nil {
		t.Fatalf("createDrink() failed: %v", err)
	}
	return d
}

func CreateVenue(t *testing.T, repo booking.Repository, name, city, state string, genres ...string) booking.Venue {
	t.Helper()
	v, err := repo.CreateVenue(context.Background(), booking.Venue{
		Name:      name,
		City:      city,
		State:     state,
		Address:   "1015 Folsom Street",
		Phone:     "123-123-1234",
		Genres:    genres,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("createVenue() failed: %v", err)
	}
	return v
}

func CreateArtist(t *testing.T, repo booking.Repository, name, city, state string, genres ...string) booking.Artist {
	t.Helper()
	a, err := repo.CreateArtist(context.Background(), booking.Artist{
		Name:      name,
		City:      city,
		State:     state,
		Phone:     "326-123-5000",
		Genres:    genres,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("createArtist() failed: %v", err)
	}
	return a
}

func CreateShow(t *testing.T, repo booking.Repository, artistID, venueID int, start time.Time) booking.Show {
	t.Helper()
	s, err := repo.CreateShow(context.Background(), booking.Show{ArtistID: artistID, VenueID: venueID, StartTime: start})
	if err != nil {
		t.Fatalf("createShow() failed: %v", err)
	}
	return s
}
