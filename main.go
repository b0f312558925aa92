package main

import "github.com/truemediaorg/mediagateway/cmd"

func main() {
	cmd.Execute()
}
