package main

import "coursebot/cmd"

func main() {
	cmd.Execute()
}
