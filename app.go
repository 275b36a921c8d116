package main

import "github.com/masmgr/git2sqlite/cmd"

func main() {
	cmd.Run()
}
