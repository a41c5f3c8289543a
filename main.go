package main

import "github.com/they4kman/chromasweep/cmd"

func main() {
	cmd.Execute()
}
