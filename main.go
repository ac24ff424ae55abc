package main

import "github.com/naka-gawa/drift-issues/cmd"

func main() {
	cmd.Execute()
}
