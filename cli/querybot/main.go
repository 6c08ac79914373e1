package main

import (
	"os"

	querybotcmder "github.com/zubale/querybot/cmd/querybot"
)

func main() {
	cmd := querybotcmder.NewQuerybotCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
