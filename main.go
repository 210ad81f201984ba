package main

import "github.com/actionsum/niribar/cmd"

func main() {
	cmd.Execute()
}
