package main

import (
	"os"

	"github.com/interviewday/board/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
