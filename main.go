package main

import (
	"os"

	"github.com/souls-console/souls-console/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
