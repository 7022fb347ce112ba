package main

import "github.com/mcoot/cricketreg/internal/cli"

func main() {
	cli.Execute()
}
