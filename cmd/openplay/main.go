package main

import "github.com/mcoot/openplay-go/internal/cli"

func main() {
	cli.Execute()
}
