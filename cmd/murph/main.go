package main

import "github.com/lowaak/murph-tracker/internal/cli"

func main() {
	cli.Execute()
}
