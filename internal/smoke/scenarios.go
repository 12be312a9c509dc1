// Package smoke holds end-to-end scenarios run against a live dungeon
// server over WebSocket.
package smoke

import (
	"fmt"
	"sync/atomic"
)

// uniqueCounter provides unique IDs for test players within a single run
var uniqueCounter uint64

// uniqueName generates a unique name by appending a letter-based suffix
func uniqueName(base string) string {
	counter := atomic.AddUint64(&uniqueCounter, 1)
	return base + counterToLetters(counter)
}

// counterToLetters converts a number to a letter sequence (1=a, 2=b, ..., 26=z, 27=aa, 28=ab, ...)
func counterToLetters(n uint64) string {
	if n == 0 {
		return "a"
	}
	result := ""
	for n > 0 {
		n-- // Make it 0-indexed
		result = string(rune('a'+(n%26))) + result
		n /= 26
	}
	return result
}

// Verbose controls whether detailed logging is shown during tests
var Verbose = false

// TestResult represents the result of a scenario
type TestResult struct {
	Name    string
	Passed  bool
	Message string
}

func pass(name, format string, args ...any) TestResult {
	return TestResult{Name: name, Passed: true, Message: fmt.Sprintf(format, args...)}
}

func fail(name, format string, args ...any) TestResult {
	return TestResult{Name: name, Passed: false, Message: fmt.Sprintf(format, args...)}
}

// logAction logs a test action when verbose mode is enabled
func logAction(testName, action string) {
	if Verbose {
		fmt.Printf("  [%s] %s\n", testName, action)
	}
}

// logResult logs an expected vs actual result when verbose mode is enabled
func logResult(testName string, success bool, detail string) {
	if Verbose {
		status := "OK"
		if !success {
			status = "FAIL"
		}
		fmt.Printf("  [%s] %s: %s\n", testName, status, detail)
	}
}

// RunAllTests runs every scenario against the server at wsURL.
func RunAllTests(wsURL string) []TestResult {
	results := make([]TestResult, 0)

	// Group 1: Connection & Commands
	results = append(results, TestBasicConnection(wsURL))
	results = append(results, TestHelpCommand(wsURL))
	results = append(results, TestLookCommand(wsURL))
	results = append(results, TestStatusCommand(wsURL))
	results = append(results, TestUnknownCommand(wsURL))
	results = append(results, TestIllegalAttack(wsURL))

	// Group 2: Game Flow
	results = append(results, TestMovement(wsURL))
	results = append(results, TestQuitEndsGame(wsURL))
	results = append(results, TestIndependentGames(wsURL))

	// Group 3: Server Protection
	results = append(results, TestRejectedName(wsURL))
	results = append(results, TestInvalidNameCharacters(wsURL))
	results = append(results, TestFloodLimit(wsURL))

	return results
}

// PrintResults prints a summary of all scenario results
func PrintResults(results []TestResult) {
	passed := 0
	failed := 0

	fmt.Println("============================================================")
	fmt.Println("Smoke Test Results")
	fmt.Println("============================================================")
	fmt.Println()

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
			failed++
		} else {
			passed++
		}
		fmt.Printf("[%s] %s: %s\n", status, r.Name, r.Message)
	}

	fmt.Println()
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Total: %d | Passed: %d | Failed: %d\n", len(results), passed, failed)
	fmt.Println("------------------------------------------------------------")
}
