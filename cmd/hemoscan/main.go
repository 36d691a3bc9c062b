package main

import "github.com/MeKo-Tech/hemoscan/cmd/hemoscan/cmd"

func main() {
	cmd.Execute()
}
