package main

import (
	"os"

	"thea/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
