package main

import (
	gormrepos "github.com/Einzelgaanger/darasa/storage/database/gorm"
)

var migrateFunc = gormrepos.Migrate // mockable

func (cli *commandLine) migrate() error {
	if err := migrateFunc(cli.db); err != nil {
		return err
	}
	logger.Println("migrations applied")
	return nil
}
