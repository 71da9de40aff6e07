package main

import "github.com/onthisday/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
