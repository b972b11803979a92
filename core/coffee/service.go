package coffee

import (
	"context"

	"github.com/pkg/errors"

	"github.com/fsnd-projects/fsnd/core"
)

var (
	// errors
	ErrNotFound    = errors.New("drink not found")
	ErrTitleExists = errors.New("a drink with this title already exists")
)

type (
	Repository interface {
		QueryDrinks(ctx context.Context, exec ...core.DBExecutor) ([]Drink, error)
		GetDrink(ctx context.Context, id int, exec ...core.DBExecutor) (Drink, error)
		// CheckTitleUniqueness returns ErrTitleExists when another drink than excludedID has title.
		CheckTitleUniqueness(ctx context.Context, title string, excludedID int, exec ...core.DBExecutor) error
		CreateDrink(ctx context.Context, d Drink, exec ...core.DBExecutor) (Drink, error)
		UpdateDrink(ctx context.Context, d Drink, exec ...core.DBExecutor) (Drink, error)
		DeleteDrinksByID(ctx context.Context, ids []int, exec ...core.DBExecutor) (int, error)
	}

	ServiceInterface interface {
		QueryAll(ctx context.Context) ([]Drink, error)
		Create(ctx context.Context, nd NewDrink) (Drink, error)
		Update(ctx context.Context, id int, ud UpdateDrink) (Drink, error)
		Delete(ctx context.Context, id int) error
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

func (svc *Service) checkUniqueness(ctx context.Context, title string, excludedID int, exec core.DBExecutor) error {
	return titleError(svc.repo.CheckTitleUniqueness(ctx, title, excludedID, exec), "checking title uniqueness")
}

// titleError turns ErrTitleExists into a validation error of the title field.
// A concurrent insert can still hit the UNIQUE constraint after the check.
func titleError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Cause(err) == ErrTitleExists {
		return core.NewValidationError(ErrTitleExists, core.FieldError{Field: "title", Error: ErrTitleExists.Error()})
	}
	return errors.Wrap(err, msg)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Drink, error) {
	drinks, err := svc.repo.QueryDrinks(ctx)
	return drinks, errors.Wrap(err, "querying drinks")
}

func (svc *Service) Create(ctx context.Context, nd NewDrink) (Drink, error) {
	var created Drink
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if err := svc.checkUniqueness(ctx, nd.Title, 0, tx); err != nil {
			return err
		}
		var err error
		created, err = svc.repo.CreateDrink(ctx, Drink{Title: nd.Title, Recipe: nd.Recipe}, tx)
		return titleError(err, "inserting drink")
	})
	return created, err
}

func (svc *Service) Update(ctx context.Context, id int, ud UpdateDrink) (Drink, error) {
	var updated Drink
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		orig, err := svc.repo.GetDrink(ctx, id, tx)
		if err != nil {
			return errors.Wrap(err, "finding drink")
		}
		if ud.Title != nil && *ud.Title != orig.Title {
			if err = svc.checkUniqueness(ctx, *ud.Title, orig.ID, tx); err != nil {
				return err
			}
		}
		updated, err = svc.repo.UpdateDrink(ctx, ud.Apply(orig), tx)
		return titleError(err, "updating drink")
	})
	return updated, err
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	cnt, err := svc.repo.DeleteDrinksByID(ctx, []int{id})
	if err != nil {
		return errors.Wrap(err, "deleting drink")
	}
	if cnt == 0 {
		return ErrNotFound
	}
	return nil
}
