package inmemdb

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/student"
)

var errNetwork = errors.New("network error - please try again")

type (
	DB struct {
		class      *classTable
		student    *studentTable
		attendance *attendanceTable
		faults     *faultInjector
	}

	classTable struct {
		sync.RWMutex
		table map[string]*class.Class
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Record
		days  map[string]map[string]string // {class|date: {reg_no: record id}}
	}

	// faultInjector makes writes fail at random, like a flaky network would.
	faultInjector struct {
		mu   sync.Mutex
		rate float64
		rnd  *rand.Rand
	}

	Option func(*DB)
)

// WithFaultRate makes each attendance write fail with a core.StoreError with probability rate.
func WithFaultRate(rate float64, seed int64) Option {
	return func(db *DB) {
		db.faults = &faultInjector{rate: rate, rnd: rand.New(rand.NewSource(seed))}
	}
}

func Open(opts ...Option) *DB {
	db := &DB{
		class:   &classTable{table: make(map[string]*class.Class)},
		student: &studentTable{table: make(map[string]*student.Student)},
		attendance: &attendanceTable{
			table: make(map[string]*attendance.Record),
			days:  make(map[string]map[string]string),
		},
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Close satisfies io.Closer.
func (db *DB) Close() error { return nil }

func (db *DB) maybeFail(op string) error {
	f := db.faults
	if f == nil || f.rate <= 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rnd.Float64() < f.rate {
		return core.NewStoreError(op, errNetwork)
	}
	return nil
}
