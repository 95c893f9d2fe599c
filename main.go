package main

import "audio-extractor/cmd"

func main() {
	cmd.Execute()
}
