package main

import (
	"jsonflat/cli"
)

func main() {
	cli.Start()
}
