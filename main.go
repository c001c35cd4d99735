package main

import "yamdb/cmd"

func main() {
	cmd.Execute()
}
