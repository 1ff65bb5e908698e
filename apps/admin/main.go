package main

import (
	"fmt"
	"os"

	"github.com/trezcool/mahudhurio/core"
)

func main() {
	var code int
	err := newContainer().Invoke(func(cli *commandLine) {
		defer func() {
			if err := cli.closer.Close(); err != nil {
				cli.logger.Error("failed to close store", err)
			}
		}()

		if err := cli.run(os.Args); err != nil {
			if err != errHelp {
				fmt.Fprintf(os.Stderr, "\nerror (%s): %s\n", core.KindOf(err), err)
			}
			code = 1
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		code = 1
	}
	os.Exit(code)
}
