package main

import "order-entry/cmd"

func main() {
	cmd.Execute()
}
