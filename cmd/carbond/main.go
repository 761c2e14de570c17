package main

import "github.com/LeJamon/carbond/internal/cli"

func main() {
	cli.Execute()
}
