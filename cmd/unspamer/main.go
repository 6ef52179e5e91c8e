package main

import "github.com/Timmmy307/Gmail-unspamer/internal/cli"

func main() {
	cli.Execute()
}
