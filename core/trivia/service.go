package trivia

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/fsnd-projects/fsnd/core"
)

var (
	randIntn = rand.Intn // mockable

	// errors
	ErrNotFound         = errors.New("question not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrNoQuizQuestion   = errors.New("no question left for this quiz")
	ErrInvalidQuiz      = errors.New("quiz category and previous questions are required")
)

type (
	Repository interface {
		QueryCategories(ctx context.Context, exec ...core.DBExecutor) ([]Category, error)
		GetCategory(ctx context.Context, id int, exec ...core.DBExecutor) (Category, error)
		CreateCategory(ctx context.Context, cat Category, exec ...core.DBExecutor) (Category, error)
		CountQuestions(ctx context.Context, filter *QueryFilter, exec ...core.DBExecutor) (int, error)
		// QueryQuestions returns questions matching filter; a limit <= 0 means no limit.
		QueryQuestions(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, limit, offset int, exec ...core.DBExecutor) ([]Question, error)
		CreateQuestion(ctx context.Context, q Question, exec ...core.DBExecutor) (Question, error)
		DeleteQuestionsByID(ctx context.Context, ids []int, exec ...core.DBExecutor) (int, error)
	}

	ServiceInterface interface {
		Categories(ctx context.Context) ([]Category, error)
		AddCategory(ctx context.Context, typ string) (Category, error)
		QuestionsPage(ctx context.Context, page int, ordering []core.DBOrdering) (QuestionPage, error)
		QuestionsByCategory(ctx context.Context, categoryID int) ([]Question, error)
		Search(ctx context.Context, term string) ([]Question, error)
		CreateQuestion(ctx context.Context, nq NewQuestion) (Question, error)
		DeleteQuestion(ctx context.Context, id int) error
		NextQuizQuestion(ctx context.Context, req QuizRequest) (Question, error)
	}

	Service struct {
		db      core.DB
		repo    Repository
		perPage int
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

// OrderingFields maps the ordering params a question listing accepts to their columns.
var OrderingFields = map[string]string{
	"id":         "id",
	"difficulty": "difficulty",
	"category":   "category_id",
}

func NewService(db core.DB, repo Repository, conf *core.Config) *Service {
	perPage := conf.Trivia.QuestionsPerPage
	if perPage <= 0 {
		perPage = 10
	}
	return &Service{db: db, repo: repo, perPage: perPage}
}

func (svc *Service) Categories(ctx context.Context) ([]Category, error) {
	cats, err := svc.repo.QueryCategories(ctx)
	return cats, errors.Wrap(err, "querying categories")
}

func (svc *Service) AddCategory(ctx context.Context, typ string) (Category, error) {
	typ = core.CleanString(typ)
	if typ == "" {
		return Category{}, core.NewValidationError(nil, core.FieldError{Field: "type", Error: "this field is required"})
	}
	cat, err := svc.repo.CreateCategory(ctx, Category{Type: typ})
	return cat, errors.Wrap(err, "creating category")
}

// QuestionsPage returns the 1-based page of questions and the total question count.
// An empty page is ErrNotFound.
func (svc *Service) QuestionsPage(ctx context.Context, page int, ordering []core.DBOrdering) (QuestionPage, error) {
	if page < 1 {
		return QuestionPage{}, ErrNotFound
	}
	ordering = core.FilterOrderings(ordering, OrderingFields)
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "id", Ascending: true}}
	}

	questions, err := svc.repo.QueryQuestions(ctx, nil, ordering, svc.perPage, (page-1)*svc.perPage)
	if err != nil {
		return QuestionPage{}, errors.Wrap(err, "querying questions")
	}
	if len(questions) == 0 {
		return QuestionPage{}, ErrNotFound
	}
	total, err := svc.repo.CountQuestions(ctx, nil)
	if err != nil {
		return QuestionPage{}, errors.Wrap(err, "counting questions")
	}
	return QuestionPage{Questions: questions, Total: total}, nil
}

func (svc *Service) QuestionsByCategory(ctx context.Context, categoryID int) ([]Question, error) {
	if categoryID < 1 {
		return nil, ErrNotFound
	}
	questions, err := svc.repo.QueryQuestions(ctx, &QueryFilter{CategoryID: categoryID}, nil, 0, 0)
	if err != nil {
		return nil, errors.Wrap(err, "querying questions by category")
	}
	if len(questions) == 0 {
		return nil, ErrNotFound
	}
	return questions, nil
}

func (svc *Service) Search(ctx context.Context, term string) ([]Question, error) {
	questions, err := svc.repo.QueryQuestions(ctx, &QueryFilter{Search: core.CleanString(term)}, nil, 0, 0)
	if err != nil {
		return nil, errors.Wrap(err, "searching questions")
	}
	if len(questions) == 0 {
		return nil, ErrNotFound
	}
	return questions, nil
}

func (svc *Service) CreateQuestion(ctx context.Context, nq NewQuestion) (Question, error) {
	var created Question
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if _, err := svc.repo.GetCategory(ctx, int(nq.Category), tx); err != nil {
			if errors.Cause(err) == ErrCategoryNotFound {
				return core.NewValidationError(err, core.FieldError{Field: "category", Error: err.Error()})
			}
			return errors.Wrap(err, "finding category")
		}

		var err error
		created, err = svc.repo.CreateQuestion(ctx, Question{
			Question:   nq.Question,
			Answer:     nq.Answer,
			Category:   int(nq.Category),
			Difficulty: int(nq.Difficulty),
		}, tx)
		return errors.Wrap(err, "inserting question")
	})
	return created, err
}

func (svc *Service) DeleteQuestion(ctx context.Context, id int) error {
	cnt, err := svc.repo.DeleteQuestionsByID(ctx, []int{id})
	if err != nil {
		return errors.Wrap(err, "deleting question")
	}
	if cnt == 0 {
		return ErrNotFound
	}
	return nil
}

// NextQuizQuestion picks a random question of the quiz category that was not asked yet.
func (svc *Service) NextQuizQuestion(ctx context.Context, req QuizRequest) (Question, error) {
	if req.QuizCategory == nil || req.PreviousQuestions == nil {
		return Question{}, ErrInvalidQuiz
	}
	if req.QuizCategory.ID < 0 {
		return Question{}, ErrNoQuizQuestion
	}

	filter := &QueryFilter{
		CategoryID: int(req.QuizCategory.ID),
		ExcludeIDs: *req.PreviousQuestions,
	}
	questions, err := svc.repo.QueryQuestions(ctx, filter, nil, 0, 0)
	if err != nil {
		return Question{}, errors.Wrap(err, "querying quiz questions")
	}
	if len(questions) == 0 {
		return Question{}, ErrNoQuizQuestion
	}
	return questions[randIntn(len(questions))], nil
}
