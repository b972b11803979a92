package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/fsnd-projects/fsnd/core/trivia"
)

// seed adds the default trivia categories missing from the DB.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	cats, err := cli.triviaSvc.Categories(ctx)
	if err != nil {
		return err
	}
	existing := make(map[string]struct{}, len(cats))
	for _, cat := range cats {
		existing[cat.Type] = struct{}{}
	}

	for _, typ := range trivia.DefaultCategories {
		if _, ok := existing[typ]; ok {
			continue
		}
		if _, err = cli.triviaSvc.AddCategory(ctx, typ); err != nil {
			return errors.Wrapf(err, "adding category %q", typ)
		}
		cli.printf("category %q added\n", typ)
	}
	return nil
}

func (cli *commandLine) addCategory(typ string) error {
	cat, err := cli.triviaSvc.AddCategory(context.Background(), typ)
	if err != nil {
		return err
	}
	cli.printf("category %q added with id %d\n", cat.Type, cat.ID)
	return nil
}
