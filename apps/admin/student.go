package main

import (
	"context"
	"fmt"

	"github.com/trezcool/mahudhurio/core/student"
)

func (cli *commandLine) addStudent(classRef string, ns student.NewStudent) error {
	ctx := context.Background()
	cls, err := cli.findClass(ctx, classRef)
	if err != nil {
		return err
	}
	ns.ClassID = cls.ID

	std, err := cli.stdSvc.Create(ctx, ns)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "enrolled %s in %s: reg no %s, roll %s\n", std.Name, cls.Name, std.RegNo, std.RollNumber)
	return nil
}
