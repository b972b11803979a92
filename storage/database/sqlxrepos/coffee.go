package sqlxrepos

import (
	"context"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/fsnd-projects/fsnd/core"
	"github.com/fsnd-projects/fsnd/core/coffee"
)

const drinksTable = "drinks"

type drinkRow struct {
	ID     int            `db:"id"`
	Title  string         `db:"title"`
	Recipe types.JSONText `db:"recipe"`
}

type coffeeRepository struct {
	repo
}

var _ coffee.Repository = (*coffeeRepository)(nil) // interface compliance check

func NewCoffeeRepository(exec core.DBExecutor) *coffeeRepository {
	return &coffeeRepository{repo{exec: exec}}
}

func (r coffeeRepository) boil(d coffee.Drink) (drinkRow, error) {
	recipe := d.Recipe
	if recipe == nil {
		recipe = coffee.Recipe{}
	}
	data, err := json.Marshal(recipe)
	if err != nil {
		return drinkRow{}, errors.Wrap(err, "encoding recipe")
	}
	return drinkRow{ID: d.ID, Title: d.Title, Recipe: data}, nil
}

func (r coffeeRepository) unboil(row drinkRow) (coffee.Drink, error) {
	d := coffee.Drink{ID: row.ID, Title: row.Title, Recipe: coffee.Recipe{}}
	if len(row.Recipe) > 0 {
		if err := row.Recipe.Unmarshal(&d.Recipe); err != nil {
			return coffee.Drink{}, errors.Wrapf(err, "decoding recipe of drink %d", row.ID)
		}
	}
	return d, nil
}

func (r coffeeRepository) QueryDrinks(ctx context.Context, exec ...core.DBExecutor) ([]coffee.Drink, error) {
	var rows []drinkRow
	b := sq.Select("id", "title", "recipe").From(drinksTable).OrderBy("id ASC")
	if err := r.selectAll(ctx, r.getExec(exec), &rows, b); err != nil {
		return nil, errors.Wrap(err, "selecting drinks")
	}

	drinks := make([]coffee.Drink, 0, len(rows))
	for _, row := range rows {
		d, err := r.unboil(row)
		if err != nil {
			return nil, err
		}
		drinks = append(drinks, d)
	}
	return drinks, nil
}

func (r coffeeRepository) GetDrink(ctx context.Context, id int, exec ...core.DBExecutor) (coffee.Drink, error) {
	var row drinkRow
	b := sq.Select("id", "title", "recipe").From(drinksTable).Where(sq.Eq{"id": id})
	if err := r.get(ctx, r.getExec(exec), &row, b); err != nil {
		return coffee.Drink{}, trapNoRowsErr(err, coffee.ErrNotFound, "selecting drink")
	}
	return r.unboil(row)
}

func (r coffeeRepository) CheckTitleUniqueness(ctx context.Context, title string, excludedID int, exec ...core.DBExecutor) error {
	b := sq.Select("COUNT(*)").From(drinksTable).Where(sq.Eq{"title": title})
	if excludedID > 0 {
		b = b.Where(sq.NotEq{"id": excludedID})
	}

	var cnt int
	if err := r.get(ctx, r.getExec(exec), &cnt, b); err != nil {
		return errors.Wrap(err, "checking drink title uniqueness")
	}
	if cnt > 0 {
		return coffee.ErrTitleExists
	}
	return nil
}

func (r coffeeRepository) CreateDrink(ctx context.Context, d coffee.Drink, exec ...core.DBExecutor) (coffee.Drink, error) {
	row, err := r.boil(d)
	if err != nil {
		return coffee.Drink{}, err
	}
	b := sq.Insert(drinksTable).
		Columns("title", "recipe").
		Values(row.Title, row.Recipe.String()).
		Suffix("RETURNING id")
	if err = r.get(ctx, r.getExec(exec), &row.ID, b); err != nil {
		if isUniqueViolation(err) {
			return coffee.Drink{}, coffee.ErrTitleExists
		}
		return coffee.Drink{}, errors.Wrap(err, "inserting drink")
	}
	return r.unboil(row)
}

func (r coffeeRepository) UpdateDrink(ctx context.Context, d coffee.Drink, exec ...core.DBExecutor) (coffee.Drink, error) {
	row, err := r.boil(d)
	if err != nil {
		return coffee.Drink{}, err
	}
	b := sq.Update(drinksTable).
		Set("title", row.Title).
		Set("recipe", row.Recipe.String()).
		Where(sq.Eq{"id": row.ID})
	cnt, err := r.execute(ctx, r.getExec(exec), b)
	if err != nil {
		if isUniqueViolation(err) {
			return coffee.Drink{}, coffee.ErrTitleExists
		}
		return coffee.Drink{}, errors.Wrap(err, "updating drink")
	}
	if cnt == 0 {
		return coffee.Drink{}, coffee.ErrNotFound
	}
	return r.unboil(row)
}

func (r coffeeRepository) DeleteDrinksByID(ctx context.Context, ids []int, exec ...core.DBExecutor) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cnt, err := r.execute(ctx, r.getExec(exec), sq.Delete(drinksTable).Where(sq.Eq{"id": ids}))
	return cnt, errors.Wrap(err, "deleting drinks")
}
