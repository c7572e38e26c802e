package main

import "dasha/cmd/dasha-cli/cmd"

func main() {
	cmd.Execute()
}
