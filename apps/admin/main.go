package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fsnd-projects/fsnd/core"
	"github.com/fsnd-projects/fsnd/core/trivia"
	logsvc "github.com/fsnd-projects/fsnd/services/logger"
	"github.com/fsnd-projects/fsnd/storage/database"
	"github.com/fsnd-projects/fsnd/storage/database/sqlxrepos"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(false)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	// start CLI
	cli := commandLine{
		db:        db,
		engine:    conf.Database.Engine,
		triviaSvc: trivia.NewService(db, sqlxrepos.NewTriviaRepository(db), conf),
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
