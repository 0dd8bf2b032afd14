package main

import "github.com/cbgen-build/cbgen/cmd"

func main() {
	cmd.Execute()
}
