package main

import (
	"log"

	"github.com/vinay-asish/SmartHire/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
