package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/class"
)

func (cli *commandLine) printRoster(roster []attendance.RosterEntry) {
	for _, re := range roster {
		fmt.Fprintf(cli.out, "%-6s  %-12s  %-30s  %s\n", re.Student.RollNumber, re.Student.RegNo, re.Student.Name, re.Status)
	}
	sum := attendance.Summarize(roster)
	fmt.Fprintf(cli.out, "total: %d  present: %d  absent: %d  rate: %.2f%%\n", sum.Total, sum.Present, sum.Absent, sum.Rate)
}

func (cli *commandLine) roster(classRef, date string) error {
	ctx := context.Background()
	cls, err := cli.findClass(ctx, classRef)
	if err != nil {
		return err
	}
	roster, err := cli.attSvc.ResolveRoster(ctx, cls.ID, date)
	if err != nil {
		return err
	}
	cli.printRoster(roster)
	return nil
}

func (cli *commandLine) commit(classRef, date, file string) error {
	ctx := context.Background()
	cls, err := cli.findClass(ctx, classRef)
	if err != nil {
		return err
	}

	var entries []attendance.Entry
	switch {
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return errors.Wrap(err, "opening attendance file")
		}
		defer f.Close()
		entries, err = readEntries(f)
		if err != nil {
			return err
		}
	case isTerminalFunc(stdinFd):
		roster, err := cli.attSvc.ResolveRoster(ctx, cls.ID, date)
		if err != nil {
			return err
		}
		if entries, err = cli.promptEntries(roster); err != nil {
			return err
		}
	default:
		if entries, err = readEntries(cli.in); err != nil {
			return err
		}
	}

	records, err := cli.attSvc.CommitDay(ctx, cls.ID, date, entries)
	if err != nil {
		return err
	}
	cli.logger.Info("attendance taken", class.Teacher{ID: cls.TeacherID}, map[string]interface{}{
		"class": cls.Name,
		"date":  date,
	})

	var present int
	for _, rec := range records {
		if rec.Status == attendance.Present {
			present++
		}
	}
	fmt.Fprintf(cli.out, "committed %d records for %s on %s (%d present)\n", len(records), cls.Name, date, present)
	return nil
}

// readEntries parses "REGNO STATUS" lines. Blank lines and lines starting with '#' are skipped.
func readEntries(r io.Reader) ([]attendance.Entry, error) {
	entries := make([]attendance.Entry, 0)
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			err := errors.Errorf("line %d: expected 'REGNO STATUS', got %q", n, line)
			return nil, core.NewValidationError(err, core.FieldError{Field: "entries", Error: err.Error()})
		}
		status, err := attendance.ParseStatus(fields[1])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}
		entries = append(entries, attendance.Entry{RegNo: fields[0], Status: status})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading attendance entries")
	}
	return entries, nil
}

// promptEntries asks for the status of every student of roster. An empty answer keeps the current status.
func (cli *commandLine) promptEntries(roster []attendance.RosterEntry) ([]attendance.Entry, error) {
	scanner := bufio.NewScanner(cli.in)
	for i := range roster {
		re := &roster[i]
	prompt:
		for {
			fmt.Fprintf(cli.out, "%s %s (%s) [p/a, current %s]: ", re.Student.RollNumber, re.Student.Name, re.Student.RegNo, re.Status)
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return nil, errors.Wrap(err, "reading answer")
				}
				fmt.Fprintln(cli.out)
				return attendance.EntriesFromRoster(roster), nil // EOF keeps the remaining statuses
			}
			switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
			case "":
				break prompt
			case "p", "present":
				re.Status = attendance.Present
				break prompt
			case "a", "absent":
				re.Status = attendance.Absent
				break prompt
			default:
				fmt.Fprintln(cli.out, "please answer p (present) or a (absent)")
			}
		}
	}
	cli.printRoster(roster)
	return attendance.EntriesFromRoster(roster), nil
}

func (cli *commandLine) mark(recordID, status string) error {
	st, err := attendance.ParseStatus(status)
	if err != nil {
		return err
	}
	rec, err := cli.attSvc.UpdateSingleStatus(context.Background(), recordID, st)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s %s on %s: %s\n", rec.RegNo, rec.StudentName, rec.Date, rec.Status)
	return nil
}

func (cli *commandLine) stats(classRef, regNo string, rng attendance.DateRange) error {
	ctx := context.Background()
	var (
		stats attendance.Stats
		err   error
	)
	if regNo != "" {
		stats, err = cli.attSvc.StudentStats(ctx, regNo, &rng)
	} else {
		var cls class.Class
		if cls, err = cli.findClass(ctx, classRef); err != nil {
			return err
		}
		stats, err = cli.attSvc.ComputeStats(ctx, cls.ID, &rng)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "days: %d  present: %d  absent: %d  rate: %.2f%%\n",
		stats.TotalDays, stats.PresentDays, stats.AbsentDays, stats.AttendanceRate)
	return nil
}

func (cli *commandLine) history(regNo string) error {
	records, err := cli.attSvc.StudentHistory(context.Background(), regNo)
	if err != nil {
		return err
	}
	for _, rec := range records {
		fmt.Fprintf(cli.out, "%s  %-36s  %-7s  %s\n", rec.Date, rec.ClassID, rec.Status, rec.ID)
	}
	return nil
}
