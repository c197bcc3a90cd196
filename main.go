package main

import "github.com/naka-gawa/merged-prs/cmd"

func main() {
	cmd.Execute()
}
