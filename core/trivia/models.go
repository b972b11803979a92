package trivia

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/fsnd-projects/fsnd/core"
)

// DefaultCategories are seeded by the admin CLI.
var DefaultCategories = []string{"Science", "Art", "Geography", "History", "Entertainment", "Sports"}

type Category struct {
	ID   int    `json:"id" db:"id"`
	Type string `json:"type" db:"type"`
}

type Question struct {
	ID         int    `json:"id" db:"id"`
	Question   string `json:"question" db:"question"`
	Answer     string `json:"answer" db:"answer"`
	Category   int    `json:"category" db:"category_id"`
	Difficulty int    `json:"difficulty" db:"difficulty"`
}

// CategoryMap renders categories as {id: type}, the shape the trivia frontend expects.
func CategoryMap(cats []Category) map[int]string {
	m := make(map[int]string, len(cats))
	for _, c := range cats {
		m[c.ID] = c.Type
	}
	return m
}

// FlexInt decodes from a JSON number or a numeric JSON string.
type FlexInt int

func (fi *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s = core.CleanString(s); s == "" {
			*fi = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*fi = FlexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*fi = FlexInt(n)
	return nil
}

// NewQuestion contains information needed to create a new Question.
type NewQuestion struct {
	Question   string  `json:"question" validate:"required,notblank"`
	Answer     string  `json:"answer" validate:"required,notblank"`
	Difficulty FlexInt `json:"difficulty" validate:"required,min=1,max=5"`
	Category   FlexInt `json:"category" validate:"required,min=1"`
}

func (nq *NewQuestion) Validate(validate *validator.Validate) error {
	nq.Question = core.CleanString(nq.Question)
	nq.Answer = core.CleanString(nq.Answer)
	return validate.Struct(nq)
}

type SearchRequest struct {
	SearchTerm string `json:"searchTerm" validate:"required,notblank"`
}

func (sr *SearchRequest) Validate(validate *validator.Validate) error {
	sr.SearchTerm = core.CleanString(sr.SearchTerm)
	return validate.Struct(sr)
}

type QuizCategory struct {
	ID   FlexInt `json:"id"`
	Type string  `json:"type"`
}

// QuizRequest asks for the next quiz question. A QuizCategory with ID 0 means "all categories".
type QuizRequest struct {
	QuizCategory      *QuizCategory `json:"quiz_category"`
	PreviousQuestions *[]int        `json:"previous_questions"`
}

// QueryFilter applies an AND on its set fields.
type QueryFilter struct {
	Search     string // case-insensitive substring of the question text
	CategoryID int
	ExcludeIDs []int
}

type QuestionPage struct {
	Questions []Question
	Total     int
}
