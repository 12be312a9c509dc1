package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zenithstorm/comp645-team1-game/internal/smoke"
)

func main() {
	serverURL := flag.String("url", "ws://localhost:8080/ws", "Dungeon server WebSocket URL")
	verbose := flag.Bool("v", false, "Verbose output - show detailed actions for each test")
	flag.Parse()

	smoke.Verbose = *verbose

	fmt.Printf("Running smoke tests against %s\n", *serverURL)
	fmt.Println("Make sure the server is running with 'dungeon -ws'!")
	if *verbose {
		fmt.Println("Verbose mode enabled - showing detailed test actions")
	}
	fmt.Println()

	results := smoke.RunAllTests(*serverURL)
	smoke.PrintResults(results)

	// Exit with error code if any tests failed
	for _, result := range results {
		if !result.Passed {
			os.Exit(1)
		}
	}
}
