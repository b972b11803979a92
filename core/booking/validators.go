package booking

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/fsnd-projects/fsnd/core"
)

var (
	usStateTag  = "usstate"
	usStateText = "this is not a valid US state"

	genreTag  = "genre"
	genreText = "unknown genre"
)

// Genres lists the music genres a venue or an artist may play.
var Genres = []string{
	"Alternative", "Blues", "Classical", "Country", "Electronic", "Folk", "Funk",
	"Hip-Hop", "Heavy Metal", "Instrumental", "Jazz", "Musical Theatre", "Pop",
	"Punk", "R&B", "Reggae", "Rock n Roll", "Soul", "Other",
}

// States lists the US state codes, DC included.
var States = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL", "GA", "HI", "ID",
	"IL", "IN", "IA", "KS", "KY", "LA", "ME", "MT", "NE", "NV", "NH", "NJ", "NM",
	"NY", "NC", "ND", "OH", "OK", "OR", "MD", "MA", "MI", "MN", "MS", "MO", "PA",
	"RI", "SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

var (
	genreSet = toSet(Genres)
	stateSet = toSet(States)
)

func toSet(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, s := range list {
		set[s] = struct{}{}
	}
	return set
}

// InitValidators registers the booking validation tags. core.InitValidators must run first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(usStateTag, usStateValidation)
	core.RegisterCustomTranslation(validate, translator, usStateTag, usStateText)

	_ = validate.RegisterValidation(genreTag, genreValidation)
	core.RegisterCustomTranslation(validate, translator, genreTag, genreText)
}

func usStateValidation(fl validator.FieldLevel) bool {
	_, ok := stateSet[fl.Field().String()]
	return ok
}

func genreValidation(fl validator.FieldLevel) bool {
	_, ok := genreSet[fl.Field().String()]
	return ok
}
