package main

import "github.com/brogergvhs/skillquiz/cmd"

func main() {
	cmd.Execute()
}
