package main

import "github.com/wishcal/wishcal/cmd"

func main() {
	cmd.Execute()
}
