package main

import "video-to-mp3/cmd"

func main() {
	cmd.Execute()
}
