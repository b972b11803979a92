package sqlxrepos

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsnd-projects/fsnd/core"
	"github.com/fsnd-projects/fsnd/core/trivia"
	"github.com/fsnd-projects/fsnd/tests"
)

func questionIDs(questions []trivia.Question) []int {
	ids := make([]int, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	return ids
}

func Test_triviaRepository_QueryQuestions(t *testing.T) {
	ctx := context.Background()
	repo := NewTriviaRepository(testutil.PrepareDB(t))

	science := testutil.CreateCategory(t, repo, "Science")
	art := testutil.CreateCategory(t, repo, "Art")
	q1 := testutil.CreateQuestion(t, repo, "What is the heaviest organ in the human body?", "The Liver", science.ID, 4)
	q2 := testutil.CreateQuestion(t, repo, "Who discovered penicillin?", "Alexander Fleming", science.ID, 3)
	q3 := testutil.CreateQuestion(t, repo, "Which Dutch graphic artist painted 100% of his works in ink?", "Escher", art.ID, 1)
	q4 := testutil.CreateQuestion(t, repo, "La Giaconda is better known as what?", "Mona Lisa", art.ID, 3)

	tests := []struct {
		name     string
		filter   *trivia.QueryFilter
		ordering []core.DBOrdering
		limit    int
		offset   int
		wantIDs  []int
	}{
		{name: "all", wantIDs: []int{q1.ID, q2.ID, q3.ID, q4.ID}},
		{name: "first page", limit: 2, wantIDs: []int{q1.ID, q2.ID}},
		{name: "second page", limit: 2, offset: 2, wantIDs: []int{q3.ID, q4.ID}},
		{name: "past last page", limit: 2, offset: 4, wantIDs: []int{}},
		{
			name:     "ordered by difficulty desc",
			ordering: []core.DBOrdering{{Field: "difficulty"}, {Field: "id", Ascending: true}},
			wantIDs:  []int{q1.ID, q2.ID, q4.ID, q3.ID},
		},
		{
			name:     "ties broken by id",
			ordering: []core.DBOrdering{{Field: "difficulty"}},
			wantIDs:  []int{q1.ID, q2.ID, q4.ID, q3.ID},
		},
		{name: "by category", filter: &trivia.QueryFilter{CategoryID: art.ID}, wantIDs: []int{q3.ID, q4.ID}},
		{name: "search is case-insensitive", filter: &trivia.QueryFilter{Search: "WHO"}, wantIDs: []int{q2.ID}},
		{name: "search matches wildcards literally", filter: &trivia.QueryFilter{Search: "100%"}, wantIDs: []int{q3.ID}},
		{name: "search underscore", filter: &trivia.QueryFilter{Search: "_"}, wantIDs: []int{}},
		{
			name:    "excluded ids",
			filter:  &trivia.QueryFilter{CategoryID: science.ID, ExcludeIDs: []int{q1.ID, q3.ID}},
			wantIDs: []int{q2.ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions, err := repo.QueryQuestions(ctx, tt.filter, tt.ordering, tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, questionIDs(questions))
		})
	}

	cnt, err := repo.CountQuestions(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, cnt)

	cnt, err = repo.CountQuestions(ctx, &trivia.QueryFilter{CategoryID: science.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, cnt)
}

func Test_triviaRepository_QueryQuestions_pagingOverTies(t *testing.T) {
	ctx := context.Background()
	repo := NewTriviaRepository(testutil.PrepareDB(t))
	cat := testutil.CreateCategory(t, repo, "Geography")

	var all, easy, hard []int
	for i := 0; i < 30; i++ {
		q := testutil.CreateQuestion(t, repo, fmt.Sprintf("Question %02d?", i), "Answer", cat.ID, i%2+1)
		all = append(all, q.ID)
		if q.Difficulty == 1 {
			easy = append(easy, q.ID)
		} else {
			hard = append(hard, q.ID)
		}
	}

	// every row ties on category_id
	tests := []struct {
		field string
		want  []int
	}{
		{field: "difficulty", want: append(append([]int{}, hard...), easy...)},
		{field: "category_id", want: all},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			ordering := []core.DBOrdering{{Field: tt.field}}
			var got []int
			for offset := 0; offset < 30; offset += 10 {
				questions, err := repo.QueryQuestions(ctx, nil, ordering, 10, offset)
				require.NoError(t, err)
				require.Len(t, questions, 10)
				got = append(got, questionIDs(questions)...)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_orderBy(t *testing.T) {
	tests := []struct {
		name     string
		ordering []core.DBOrdering
		want     []string
	}{
		{name: "default", want: []string{"id ASC"}},
		{name: "tiebreaker appended", ordering: []core.DBOrdering{{Field: "difficulty"}}, want: []string{"difficulty DESC", "id ASC"}},
		{
			name:     "explicit id kept",
			ordering: []core.DBOrdering{{Field: "category_id", Ascending: true}, {Field: "id"}, {Field: "difficulty"}},
			want:     []string{"category_id ASC", "id DESC"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderBy(tt.ordering, "id ASC"))
		})
	}
}

func Test_triviaRepository_categories(t *testing.T) {
	ctx := context.Background()
	repo := NewTriviaRepository(testutil.PrepareDB(t))

	cats, err := repo.QueryCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)

	sports := testutil.CreateCategory(t, repo, "Sports")
	history := testutil.CreateCategory(t, repo, "History")

	cats, err = repo.QueryCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []trivia.Category{sports, history}, cats)

	cat, err := repo.GetCategory(ctx, history.ID)
	require.NoError(t, err)
	assert.Equal(t, history, cat)

	_, err = repo.GetCategory(ctx, 1000)
	assert.Equal(t, trivia.ErrCategoryNotFound, err)
}

func Test_triviaRepository_CreateQuestion_unknownCategory(t *testing.T) {
	repo := NewTriviaRepository(testutil.PrepareDB(t))
	_, err := repo.CreateQuestion(context.Background(), trivia.Question{Question: "Q", Answer: "A", Category: 42, Difficulty: 1})
	assert.Error(t, err)
}

func Test_triviaRepository_DeleteQuestionsByID(t *testing.T) {
	ctx := context.Background()
	repo := NewTriviaRepository(testutil.PrepareDB(t))

	cat := testutil.CreateCategory(t, repo, "Geography")
	q1 := testutil.CreateQuestion(t, repo, "What is the largest lake in Africa?", "Lake Victoria", cat.ID, 2)
	q2 := testutil.CreateQuestion(t, repo, "In which royal palace would you find the Hall of Mirrors?", "The Palace of Versailles", cat.ID, 3)

	cnt, err := repo.DeleteQuestionsByID(ctx, []int{q1.ID, 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, cnt)

	cnt, err = repo.DeleteQuestionsByID(ctx, []int{q1.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, cnt)

	questions, err := repo.QueryQuestions(ctx, nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{q2.ID}, questionIDs(questions))
}
