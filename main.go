package main

import "github.com/strataworks/layerd/cmd"

func main() {
	cmd.Execute()
}
