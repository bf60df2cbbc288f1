package main

import "github.com/forPelevin/comedyclip/internal/cli"

func main() {
	cli.Main()
}
