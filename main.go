package main

import "github.com/eric-dev/eric/internal/cli"

func main() {
	cli.Execute()
}
