package main

import "github.com/hrntsm/dmkit/internal/cli"

func main() {
	cli.Execute()
}
