package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/fsnd-projects/fsnd/core"
	"github.com/fsnd-projects/fsnd/core/trivia"
)

const (
	categoriesTable = "categories"
	questionsTable  = "questions"
)

var questionColumns = []string{"id", "question", "answer", "category_id", "difficulty"}

type triviaRepository struct {
	repo
}

var _ trivia.Repository = (*triviaRepository)(nil) // interface compliance check

func NewTriviaRepository(exec core.DBExecutor) *triviaRepository {
	return &triviaRepository{repo{exec: exec}}
}

func (r triviaRepository) QueryCategories(ctx context.Context, exec ...core.DBExecutor) ([]trivia.Category, error) {
	cats := make([]trivia.Category, 0)
	b := sq.Select("id", "type").From(categoriesTable).OrderBy("id ASC")
	if err := r.selectAll(ctx, r.getExec(exec), &cats, b); err != nil {
		return nil, errors.Wrap(err, "selecting categories")
	}
	return cats, nil
}

func (r triviaRepository) GetCategory(ctx context.Context, id int, exec ...core.DBExecutor) (trivia.Category, error) {
	var cat trivia.Category
	b := sq.Select("id", "type").From(categoriesTable).Where(sq.Eq{"id": id})
	if err := r.get(ctx, r.getExec(exec), &cat, b); err != nil {
		return trivia.Category{}, trapNoRowsErr(err, trivia.ErrCategoryNotFound, "selecting category")
	}
	return cat, nil
}

func (r triviaRepository) CreateCategory(ctx context.Context, cat trivia.Category, exec ...core.DBExecutor) (trivia.Category, error) {
	b := sq.Insert(categoriesTable).Columns("type").Values(cat.Type).Suffix("RETURNING id")
	if err := r.get(ctx, r.getExec(exec), &cat.ID, b); err != nil {
		return trivia.Category{}, errors.Wrap(err, "inserting category")
	}
	return cat, nil
}

func questionsWhere(b sq.SelectBuilder, filter *trivia.QueryFilter) sq.SelectBuilder {
	if filter == nil {
		return b
	}
	if filter.Search != "" {
		b = b.Where(containsFold("question", filter.Search))
	}
	if filter.CategoryID > 0 {
		b = b.Where(sq.Eq{"category_id": filter.CategoryID})
	}
	if len(filter.ExcludeIDs) > 0 {
		b = b.Where(sq.NotEq{"id": filter.ExcludeIDs})
	}
	return b
}

func (r triviaRepository) CountQuestions(ctx context.Context, filter *trivia.QueryFilter, exec ...core.DBExecutor) (int, error) {
	var cnt int
	b := questionsWhere(sq.Select("COUNT(*)").From(questionsTable), filter)
	if err := r.get(ctx, r.getExec(exec), &cnt, b); err != nil {
		return 0, errors.Wrap(err, "counting questions")
	}
	return cnt, nil
}

func (r triviaRepository) QueryQuestions(
	ctx context.Context,
	filter *trivia.QueryFilter,
	ordering []core.DBOrdering,
	limit, offset int,
	exec ...core.DBExecutor,
) ([]trivia.Question, error) {
	b := questionsWhere(sq.Select(questionColumns...).From(questionsTable), filter)
	b = b.OrderBy(orderBy(ordering, "id ASC")...)
	if limit > 0 {
		b = b.Limit(uint64(limit)).Offset(uint64(offset))
	}

	questions := make([]trivia.Question, 0)
	if err := r.selectAll(ctx, r.getExec(exec), &questions, b); err != nil {
		return nil, errors.Wrap(err, "selecting questions")
	}
	return questions, nil
}

func (r triviaRepository) CreateQuestion(ctx context.Context, q trivia.Question, exec ...core.DBExecutor) (trivia.Question, error) {
	b := sq.Insert(questionsTable).
		Columns("question", "answer", "category_id", "difficulty").
		Values(q.Question, q.Answer, q.Category, q.Difficulty).
		Suffix("RETURNING id")
	if err := r.get(ctx, r.getExec(exec), &q.ID, b); err != nil {
		return trivia.Question{}, errors.Wrap(err, "inserting question")
	}
	return q, nil
}

func (r triviaRepository) DeleteQuestionsByID(ctx context.Context, ids []int, exec ...core.DBExecutor) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cnt, err := r.execute(ctx, r.getExec(exec), sq.Delete(questionsTable).Where(sq.Eq{"id": ids}))
	return cnt, errors.Wrap(err, "deleting questions")
}
