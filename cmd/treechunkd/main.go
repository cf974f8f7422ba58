package main

import "github.com/zkprover/treechunk64/internal/cli"

func main() {
	cli.Execute()
}
