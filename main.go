package main

import (
	"os"

	"github.com/OliveiraNt/offset-scout/cmd"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
