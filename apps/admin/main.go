package main

import (
	"log"
	"os"

	"github.com/Einzelgaanger/darasa/core"
	"github.com/Einzelgaanger/darasa/core/rank"
	"github.com/Einzelgaanger/darasa/core/user"
	emailsvc "github.com/Einzelgaanger/darasa/services/email"
	gormrepos "github.com/Einzelgaanger/darasa/storage/database/gorm"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	db, err := gormrepos.Open(core.Conf)
	errAndDie(err)

	usrRepo := gormrepos.NewUserRepository(db)
	unitRepo := gormrepos.NewUnitRepository(db)
	trackRepo := gormrepos.NewTrackRepository(db)

	// start CLI
	cli := commandLine{
		db:      db,
		usrSvc:  user.NewService(usrRepo, emailsvc.NewConsoleService()),
		rankSvc: rank.NewService(unitRepo, trackRepo, usrRepo),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
