package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/student"
)

var (
	isTerminalFunc = term.IsTerminal // mockable
	stdinFd        = int(os.Stdin.Fd())

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db       *sqlx.DB
	closer   io.Closer
	logger   core.Logger
	classSvc *class.Service
	stdSvc   *student.Service
	attSvc   *attendance.Service
	in       io.Reader
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a database migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  addclass -name NAME -teacher ID - create a class")
	fmt.Fprintln(cli.out, "  classes [-teacher ID] - list classes")
	fmt.Fprintln(cli.out, "  addstudent -class CLASS -name NAME -roll N [-dob D] [-gender G] [-guardian NAME] [-contact C] - enroll a student")
	fmt.Fprintln(cli.out, "  roster -class CLASS [-date D] - show the attendance roster of a day")
	fmt.Fprintln(cli.out, "  commit -class CLASS [-date D] [-file PATH] - take the attendance of a day")
	fmt.Fprintln(cli.out, "  mark -record ID -status STATUS - change the status of one record")
	fmt.Fprintln(cli.out, "  stats (-class CLASS | -regno REGNO) [-from D] [-to D] - show attendance statistics")
	fmt.Fprintln(cli.out, "  history -regno REGNO - list the attendance records of a student")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// parse returns errHelp when a required flag is missing.
func parse(fs *flag.FlagSet, args []string, required ...*string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	for _, val := range required {
		if core.CleanString(*val) == "" {
			fs.Usage()
			return errHelp
		}
	}
	return nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch cmdArgs := args[2:]; args[1] {
	case "migrate":
		if len(cmdArgs) == 0 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(cmdArgs)

	case "addclass":
		cmd := cli.newFlagSet("addclass")
		name := cmd.String("name", "", "The class name. Must be unique.")
		teacher := cmd.String("teacher", "", "The ID of the class teacher.")
		if err := parse(cmd, cmdArgs, name, teacher); err != nil {
			return err
		}
		return cli.addClass(*name, *teacher)

	case "classes":
		cmd := cli.newFlagSet("classes")
		teacher := cmd.String("teacher", "", "Only list the classes of this teacher.")
		if err := parse(cmd, cmdArgs); err != nil {
			return err
		}
		return cli.listClasses(*teacher)

	case "addstudent":
		cmd := cli.newFlagSet("addstudent")
		cls := cmd.String("class", "", "The class ID or name.")
		ns := student.NewStudent{}
		cmd.StringVar(&ns.Name, "name", "", "The student's name.")
		cmd.StringVar(&ns.RollNumber, "roll", "", "The roll number, unique in the class.")
		cmd.StringVar(&ns.DateOfBirth, "dob", "", "The date of birth (YYYY-MM-DD).")
		gender := cmd.String("gender", "", "Male, Female or Other.")
		cmd.StringVar(&ns.GuardianName, "guardian", "", "The guardian's name.")
		cmd.StringVar(&ns.GuardianContact, "contact", "", "The guardian's contact.")
		if err := parse(cmd, cmdArgs, cls, &ns.Name, &ns.RollNumber); err != nil {
			return err
		}
		ns.Gender = student.Gender(*gender)
		return cli.addStudent(*cls, ns)

	case "roster":
		cmd := cli.newFlagSet("roster")
		cls := cmd.String("class", "", "The class ID or name.")
		date := cmd.String("date", core.Today(), "The day (YYYY-MM-DD).")
		if err := parse(cmd, cmdArgs, cls); err != nil {
			return err
		}
		return cli.roster(*cls, *date)

	case "commit":
		cmd := cli.newFlagSet("commit")
		cls := cmd.String("class", "", "The class ID or name.")
		date := cmd.String("date", core.Today(), "The day (YYYY-MM-DD).")
		file := cmd.String("file", "", "A file of 'REGNO STATUS' lines. Read from stdin if omitted; prompted per student on a terminal.")
		if err := parse(cmd, cmdArgs, cls); err != nil {
			return err
		}
		return cli.commit(*cls, *date, *file)

	case "mark":
		cmd := cli.newFlagSet("mark")
		record := cmd.String("record", "", "The attendance record ID.")
		status := cmd.String("status", "", "PRESENT or ABSENT.")
		if err := parse(cmd, cmdArgs, record, status); err != nil {
			return err
		}
		return cli.mark(*record, *status)

	case "stats":
		cmd := cli.newFlagSet("stats")
		cls := cmd.String("class", "", "The class ID or name.")
		regNo := cmd.String("regno", "", "A student's registration number, instead of a class.")
		rng := attendance.DateRange{}
		cmd.StringVar(&rng.Start, "from", "", "First day included (YYYY-MM-DD).")
		cmd.StringVar(&rng.End, "to", "", "Last day included (YYYY-MM-DD).")
		if err := parse(cmd, cmdArgs); err != nil {
			return err
		}
		if (*cls == "") == (*regNo == "") {
			cmd.Usage()
			return errHelp
		}
		return cli.stats(*cls, *regNo, rng)

	case "history":
		cmd := cli.newFlagSet("history")
		regNo := cmd.String("regno", "", "The student's registration number.")
		if err := parse(cmd, cmdArgs, regNo); err != nil {
			return err
		}
		return cli.history(*regNo)

	default:
		cli.printUsage()
		return errHelp
	}
}
