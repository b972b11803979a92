package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fsnd-projects/fsnd/core/trivia"
)

type (
	categoriesResponse struct {
		Success    bool           `json:"success"`
		Categories map[int]string `json:"categories"`
	}

	questionsResponse struct {
		Success         bool              `json:"success"`
		Questions       []trivia.Question `json:"questions"`
		TotalQuestions  int               `json:"total_questions"`
		Categories      map[int]string    `json:"categories,omitempty"`
		CurrentCategory *int              `json:"current_category"`
	}

	quizResponse struct {
		Success  bool            `json:"success"`
		Question trivia.Question `json:"question"`
	}
)

type triviaApi struct {
	svc      trivia.ServiceInterface
	validate *validator.Validate
}

func registerTriviaAPI(g *echo.Group, svc trivia.ServiceInterface, validate *validator.Validate) {
	api := triviaApi{
		svc:      svc,
		validate: validate,
	}

	g.GET("/categories", api.categories)
	g.GET("/categories/:id/questions", api.categoryQuestions)

	g.GET("/questions", api.questions)
	g.POST("/questions", api.createQuestion)
	g.POST("/questions/search", api.searchQuestions)
	g.DELETE("/questions/:id", api.deleteQuestion)

	g.POST("/quizzes", api.nextQuizQuestion)
}

// Handlers

func (api *triviaApi) categories(ctx echo.Context) error {
	cats, err := api.svc.Categories(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying categories")
	}
	if len(cats) == 0 {
		return errHttpNotFound
	}

	return ctx.JSON(http.StatusOK, categoriesResponse{Success: true, Categories: trivia.CategoryMap(cats)})
}

func (api *triviaApi) questions(ctx echo.Context) error {
	var page Page
	page.Bind(ctx)
	var ord Ordering
	ord.Bind(ctx)

	reqCtx := ctx.Request().Context()
	pg, err := api.svc.QuestionsPage(reqCtx, page.Number, ord.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying questions page")
	}
	cats, err := api.svc.Categories(reqCtx)
	if err != nil {
		return errors.Wrap(err, "querying categories")
	}

	return ctx.JSON(http.StatusOK, questionsResponse{
		Success:        true,
		Questions:      pg.Questions,
		TotalQuestions: pg.Total,
		Categories:     trivia.CategoryMap(cats),
	})
}

func (api *triviaApi) categoryQuestions(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	questions, err := api.svc.QuestionsByCategory(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying category questions")
	}

	return ctx.JSON(http.StatusOK, questionsResponse{
		Success:         true,
		Questions:       questions,
		TotalQuestions:  len(questions),
		CurrentCategory: &id,
	})
}

func (api *triviaApi) createQuestion(ctx echo.Context) error {
	var data trivia.NewQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuestion")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	q, err := api.svc.CreateQuestion(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating question")
	}

	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "created": q.ID})
}

func (api *triviaApi) searchQuestions(ctx echo.Context) error {
	var data trivia.SearchRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SearchRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	questions, err := api.svc.Search(ctx.Request().Context(), data.SearchTerm)
	if err != nil {
		return errors.Wrap(err, "searching questions")
	}

	return ctx.JSON(http.StatusOK, questionsResponse{
		Success:        true,
		Questions:      questions,
		TotalQuestions: len(questions),
	})
}

func (api *triviaApi) deleteQuestion(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.DeleteQuestion(ctx.Request().Context(), id); err != nil {
		if errors.Cause(err) == trivia.ErrNotFound {
			return errHttpUnprocessable
		}
		return errors.Wrap(err, "deleting question")
	}

	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "deleted": id})
}

func (api *triviaApi) nextQuizQuestion(ctx echo.Context) error {
	var data trivia.QuizRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuizRequest")
	}

	q, err := api.svc.NextQuizQuestion(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "picking quiz question")
	}

	return ctx.JSON(http.StatusOK, quizResponse{Success: true, Question: q})
}
