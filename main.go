package main

import "github.com/gantryworks/gantry/cmd"

func main() {
	cmd.Execute()
}
