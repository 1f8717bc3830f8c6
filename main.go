package main

import "github.com/cmmoran/cs2cpp/cmd"

func main() {
	cmd.Execute()
}
