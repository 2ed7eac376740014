package main

import "github.com/nfrund/biodex/cmd/biodex-cli/cmd"

func main() {
	cmd.Execute()
}
