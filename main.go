package main

import "github.com/mapagent/mapagent/cmd"

func main() {
	cmd.Execute()
}
