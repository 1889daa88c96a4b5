package main

import (
	"fmt"
	"os"

	"github.com/jason-s-yu/gostop/internal/cli"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
