package main

import "clothing-importer/cmd"

func main() {
	cmd.Execute()
}
