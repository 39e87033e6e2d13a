package main

import (
	"github.com/tursodatabase/tursotris/internal/cmd"
)

func main() {
	cmd.Execute()
}
