package main

import "github.com/OpenTraceLab/OpenTraceDISCON/cmd/discon/cmd"

func main() {
	cmd.Execute()
}
