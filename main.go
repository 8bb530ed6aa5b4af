package main

import "github.com/merow/meetnote/cmd"

func main() {
	cmd.Execute()
}
