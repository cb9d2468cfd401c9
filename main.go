package main

import "drive-file-upload/cmd"

func main() {
	cmd.Execute()
}
