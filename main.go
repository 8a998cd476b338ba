package main

import "github.com/wbenoit/sift/cli/cmd"

func main() {
	cmd.Execute()
}
