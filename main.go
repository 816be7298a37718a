package main

import "scriptreel/cmd"

func main() {
	cmd.Execute()
}
