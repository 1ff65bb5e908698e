package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/student"
	logsvc "github.com/trezcool/mahudhurio/services/logger"
	"github.com/trezcool/mahudhurio/storage/database"
	inmemdb "github.com/trezcool/mahudhurio/storage/database/inmem"
	sqlxrepos "github.com/trezcool/mahudhurio/storage/database/sqlx"
)

// stores groups the repositories of the configured backend.
type stores struct {
	dig.Out

	DB         *sqlx.DB // nil for the memory backend
	Closer     io.Closer
	Classes    class.Repository
	Students   student.Repository
	Attendance attendance.Repository
}

type cliParams struct {
	dig.In

	DB         *sqlx.DB
	Closer     io.Closer
	Logger     core.Logger
	Classes    *class.Service
	Students   *student.Service
	Attendance *attendance.Service
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newStores(conf *core.Config, logger core.Logger) (stores, error) {
	switch conf.Store.Backend {
	case core.StoreMemory:
		db := inmemdb.Open(inmemdb.WithFaultRate(conf.Store.FaultRate, time.Now().UnixNano()))
		logger.Debug("using in-memory store", map[string]interface{}{"fault_rate": conf.Store.FaultRate})
		return stores{
			Closer:     db,
			Classes:    inmemdb.NewClassRepository(db),
			Students:   inmemdb.NewStudentRepository(db),
			Attendance: inmemdb.NewAttendanceRepository(db),
		}, nil

	case core.StoreSQL:
		db, err := openSQL(conf)
		if err != nil {
			return stores{}, errors.Wrap(err, "setting up database")
		}
		logger.Debug("using sql store", map[string]interface{}{"engine": conf.Database.Engine})
		return stores{
			DB:         db,
			Closer:     db,
			Classes:    sqlxrepos.NewClassRepository(db),
			Students:   sqlxrepos.NewStudentRepository(db),
			Attendance: sqlxrepos.NewAttendanceRepository(db),
		}, nil

	default:
		return stores{}, errors.Errorf("unknown store backend %q", conf.Store.Backend)
	}
}

func openSQL(conf *core.Config) (*sqlx.DB, error) {
	if conf.Database.Engine == database.EngineSQLite {
		return database.OpenSQLite(conf.Database.Path)
	}
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}
	return database.Open(conf)
}

func newClassGetter(svc *class.Service) student.ClassGetter { return svc }

func newDirectory(svc *student.Service) attendance.Directory { return svc }

func newCommandLine(p cliParams) *commandLine {
	return &commandLine{
		db:       p.DB,
		closer:   p.Closer,
		logger:   p.Logger,
		classSvc: p.Classes,
		stdSvc:   p.Students,
		attSvc:   p.Attendance,
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// newContainer returns the dependency injection dig.Container of the admin CLI.
func newContainer() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStores))
	must(c.Provide(class.NewService))
	must(c.Provide(newClassGetter))
	must(c.Provide(student.NewService))
	must(c.Provide(newDirectory))
	must(c.Provide(attendance.NewService))
	must(c.Provide(newCommandLine))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
