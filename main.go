package main

import "github.com/dtrann/clothify/cmd"

func main() {
	cmd.Start()
}
