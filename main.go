package main

import "github.com/KaramelBytes/autoeda-cli/cmd"

func main() {
	cmd.Execute()
}
