package main

import "mentions/cmd/mentions-cli/cmd"

func main() {
	cmd.Execute()
}
