package main

import "github.com/goosewin/nestprop/cmd"

func main() {
	cmd.Execute()
}
