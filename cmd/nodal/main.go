package main

import "github.com/nodalbuild/nodal/cmd/nodal/cmd"

func main() {
	cmd.Execute()
}
