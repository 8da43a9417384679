package main

import "github.com/Ayman-Singh/IoT-InvisiStrings/cmd"

func main() {
	cmd.Execute()
}
