package main

import (
	"github.com/syllascope/syllascope/cmd"
)

func main() {
	cmd.Execute()
}
