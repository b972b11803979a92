package sqlxrepos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsnd-projects/fsnd/core"
	"github.com/fsnd-projects/fsnd/core/coffee"
	"github.com/fsnd-projects/fsnd/tests"
)

func Test_coffeeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCoffeeRepository(testutil.PrepareDB(t))

	drinks, err := repo.QueryDrinks(ctx)
	require.NoError(t, err)
	assert.Empty(t, drinks)

	water := testutil.CreateDrink(t, repo, "Water", coffee.Ingredient{Name: "Water", Color: "blue", Parts: 1})
	latte := testutil.CreateDrink(t, repo, "Latte",
		coffee.Ingredient{Name: "Espresso", Color: "brown", Parts: 1},
		coffee.Ingredient{Name: "Milk", Color: "white", Parts: 3},
	)

	drinks, err = repo.QueryDrinks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []coffee.Drink{water, latte}, drinks)

	got, err := repo.GetDrink(ctx, latte.ID)
	require.NoError(t, err)
	assert.Equal(t, latte, got)

	_, err = repo.GetDrink(ctx, 1000)
	assert.Equal(t, coffee.ErrNotFound, err)

	t.Run("title uniqueness", func(t *testing.T) {
		assert.Equal(t, coffee.ErrTitleExists, repo.CheckTitleUniqueness(ctx, "Water", 0))
		assert.NoError(t, repo.CheckTitleUniqueness(ctx, "Water", water.ID))
		assert.NoError(t, repo.CheckTitleUniqueness(ctx, "Mocha", 0))
	})

	t.Run("title constraint", func(t *testing.T) {
		_, err := repo.CreateDrink(ctx, coffee.Drink{Title: "Water", Recipe: water.Recipe})
		assert.Equal(t, coffee.ErrTitleExists, err)

		renamed := latte
		renamed.Title = "Water"
		_, err = repo.UpdateDrink(ctx, renamed)
		assert.Equal(t, coffee.ErrTitleExists, err)
	})

	t.Run("update", func(t *testing.T) {
		latte.Title = "Flat White"
		latte.Recipe = coffee.Recipe{{Name: "Espresso", Color: "brown", Parts: 2}}
		updated, err := repo.UpdateDrink(ctx, latte)
		require.NoError(t, err)
		assert.Equal(t, latte, updated)

		got, err := repo.GetDrink(ctx, latte.ID)
		require.NoError(t, err)
		assert.Equal(t, latte, got)

		_, err = repo.UpdateDrink(ctx, coffee.Drink{ID: 1000, Title: "Ghost"})
		assert.Equal(t, coffee.ErrNotFound, err)
	})

	t.Run("delete", func(t *testing.T) {
		cnt, err := repo.DeleteDrinksByID(ctx, []int{water.ID})
		require.NoError(t, err)
		assert.Equal(t, 1, cnt)

		cnt, err = repo.DeleteDrinksByID(ctx, []int{water.ID})
		require.NoError(t, err)
		assert.Equal(t, 0, cnt)
	})
}

func Test_coffeeRepository_inTx(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewCoffeeRepository(db)

	err := core.InTx(ctx, db, func(tx core.DBExecutor) error {
		if _, err := repo.CreateDrink(ctx, coffee.Drink{Title: "Mocha"}, tx); err != nil {
			return err
		}
		return coffee.ErrTitleExists
	})
	assert.Equal(t, coffee.ErrTitleExists, err)

	drinks, err := repo.QueryDrinks(ctx)
	require.NoError(t, err)
	assert.Empty(t, drinks, "the insert should have been rolled back")
}
