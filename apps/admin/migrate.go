package main

import (
	"errors"

	"github.com/trezcool/mahudhurio/storage/database"
)

var (
	migrateFunc = database.RunMigrations // mockable

	errNoDatabase = errors.New("migrations need the sql store backend")
)

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoDatabase
	}
	return migrateFunc(cli.db, args[0], args[1:]...)
}
