package main

import "github.com/jjenkins/civic/cmd"

func main() {
	cmd.Execute()
}
