package main

import (
	"os"

	"github.com/teranos/dtypegen/cmd/dtypegen/commands"
)

func main() {
	os.Exit(commands.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
