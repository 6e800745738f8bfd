package main

import "github.com/notargets/twophase/cmd"

func main() {
	cmd.Execute()
}
