package main

import "github.com/njchilds90/goresidue/internal/cli"

func main() {
	cli.Execute()
}
