package main

import (
	"fmt"
	"os"

	"github.com/settatam/shop-sub011/internal"
)

func main() {
	if err := internal.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "shop-ai: %v\n", err)
		os.Exit(1)
	}
}
