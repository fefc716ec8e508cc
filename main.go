package main

import (
	"fmt"
	"os"

	"github.com/gritdb/gritdb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
