package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/class"
)

// findClass looks a class up by ID, then by name. Close names are suggested when neither matches.
func (cli *commandLine) findClass(ctx context.Context, ref string) (class.Class, error) {
	cls, err := cli.classSvc.GetByID(ctx, ref)
	if err == nil || !core.IsNotFound(err) {
		return cls, err
	}
	if cls, err = cli.classSvc.GetByName(ctx, ref); err == nil || !core.IsNotFound(err) {
		return cls, err
	}

	if names, sErr := cli.classSvc.Suggest(ctx, ref); sErr == nil && len(names) > 0 {
		fmt.Fprintf(cli.out, "class %q not found, did you mean: %s?\n", ref, strings.Join(names, ", "))
	}
	return class.Class{}, err
}

func (cli *commandLine) addClass(name, teacherID string) error {
	cls, err := cli.classSvc.Create(context.Background(), class.NewClass{Name: name, TeacherID: teacherID})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created class %s (%s)\n", cls.Name, cls.ID)
	return nil
}

func (cli *commandLine) listClasses(teacherID string) error {
	classes, err := cli.classSvc.QueryByTeacher(context.Background(), core.CleanString(teacherID))
	if err != nil {
		return err
	}
	for _, cls := range classes {
		fmt.Fprintf(cli.out, "%-36s  %-20s  %s\n", cls.ID, cls.Name, cls.TeacherID)
	}
	return nil
}
