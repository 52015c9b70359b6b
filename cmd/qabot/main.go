package main

import "academy-qabot/internal/cli"

func main() {
	cli.Execute()
}
