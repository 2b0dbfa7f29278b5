package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	echoapi "github.com/Einzelgaanger/darasa/apps/api/echo"
	"github.com/Einzelgaanger/darasa/core"
	"github.com/Einzelgaanger/darasa/core/rank"
	"github.com/Einzelgaanger/darasa/core/track"
	"github.com/Einzelgaanger/darasa/core/unit"
	"github.com/Einzelgaanger/darasa/core/user"
	emailsvc "github.com/Einzelgaanger/darasa/services/email"
	logsvc "github.com/Einzelgaanger/darasa/services/logger"
	gormrepos "github.com/Einzelgaanger/darasa/storage/database/gorm"
	filestore "github.com/Einzelgaanger/darasa/storage/files"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var logger core.Logger
	if core.Conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	// set up DB
	db, err := gormrepos.Open(core.Conf)
	errAndDie(std, err)

	usrRepo := gormrepos.NewUserRepository(db)
	unitRepo := gormrepos.NewUnitRepository(db)
	trackRepo := gormrepos.NewTrackRepository(db)

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService()
	}

	var files core.FileStorage
	switch core.Conf.Storage.Backend {
	case "b2":
		files, err = filestore.NewB2Storage(context.Background(), core.Conf)
	default:
		files, err = filestore.NewDiskStorage(core.Conf)
	}
	errAndDie(std, err)

	usrSvc := user.NewService(usrRepo, mailSvc)
	trackSvc := track.NewService(trackRepo, unitRepo)
	unitSvc := unit.NewService(unitRepo, trackSvc, files)
	rankSvc := rank.NewService(unitRepo, trackRepo, usrRepo)

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:     core.Conf.Server.Addr,
			Logger:   logger,
			UserSvc:  usrSvc,
			UnitSvc:  unitSvc,
			TrackSvc: trackSvc,
			RankSvc:  rankSvc,
			Files:    files,
		},
		shutdown,
	)
	go app.Start()

	<-shutdown
	std.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		std.Printf("graceful shutdown failed: %v", err)
	}
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
