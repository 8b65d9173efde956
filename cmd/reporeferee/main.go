package main

import (
	"fmt"
	"os"

	"github.com/reporeferee/reporeferee/cmd/reporeferee/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
