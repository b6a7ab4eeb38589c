package main

import "github.com/kiaan-ai/voiceorb/cmd"

func main() {
	cmd.Execute()
}
