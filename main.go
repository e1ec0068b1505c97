package main

import "github.com/trainhub/trainctl/cmd"

func main() {
	cmd.Execute()
}
