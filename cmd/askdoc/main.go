package main

import "github.com/custodia-labs/askdoc-cli/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
