package main

import "github.com/AbdulSadath77/agent-memory/cmd"

func main() {
	cmd.Execute()
}
