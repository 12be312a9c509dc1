package smoke

import (
	"fmt"
	"time"

	"github.com/zenithstorm/comp645-team1-game/internal/testclient"
)

const replyTimeout = 2 * time.Second

// =============================================================================
// Group 1: Connection & Commands
// =============================================================================

// TestBasicConnection tests that a client gets the opening of a new game
func TestBasicConnection(wsURL string) TestResult {
	const testName = "Basic Connection"

	logAction(testName, "Connecting anonymously...")
	client, err := testclient.NewTestClient("", wsURL)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	found := client.WaitForMessage("[HP", replyTimeout)
	logResult(testName, found, "Opening shows the status line")
	if !found {
		return fail(testName, "Opening had no status line")
	}
	return pass(testName, "Connected, received %d lines", len(client.GetMessages()))
}

// TestHelpCommand tests the command overview and a single topic
func TestHelpCommand(wsURL string) TestResult {
	const testName = "Help Command"

	client, err := testclient.NewTestClient(uniqueName("Helper"), wsURL)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()
	client.ClearMessages()

	logAction(testName, "Sending 'help'")
	client.SendCommand("help")
	if !client.WaitForMessage("Commands:", replyTimeout) {
		return fail(testName, "'help' did not list commands")
	}

	logAction(testName, "Sending 'help run'")
	client.SendCommand("help run")
	found := client.WaitForMessage("FLEE", replyTimeout)
	logResult(testName, found, "Alias resolves to FLEE")
	if !found {
		return fail(testName, "'help run' did not describe FLEE")
	}
	return pass(testName, "Overview and topic help shown")
}

// TestLookCommand tests that look describes the entrance
func TestLookCommand(wsURL string) TestResult {
	const testName = "Look Command"

	client, err := testclient.NewTestClient(uniqueName("Looker"), wsURL)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()
	client.ClearMessages()

	client.SendCommand("l")
	if !client.WaitForMessage("[Entrance]", replyTimeout) {
		return fail(testName, "'l' did not describe the entrance")
	}
	return pass(testName, "Entrance described")
}

// TestStatusCommand tests that status shows the chosen name
func TestStatusCommand(wsURL string) TestResult {
	const testName = "Status Command"

	name := uniqueName("Knight")
	logAction(testName, fmt.Sprintf("Connecting as '%s'...", name))
	client, err := testclient.NewTestClient(name, wsURL)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()
	client.ClearMessages()

	client.SendCommand("status")
	header := fmt.Sprintf("=== %s ===", name)
	if !client.WaitForMessage(header, replyTimeout) {
		return fail(testName, "status did not show %q", header)
	}
	if !client.WaitForMessage("Abilities:", replyTimeout) {
		return fail(testName, "status did not list abilities")
	}
	return pass(testName, "Character sheet shown for %s", name)
}

// TestUnknownCommand tests the reply to a word the game does not know
func TestUnknownCommand(wsURL string) TestResult {
	const testName = "Unknown Command"

	client, err := testclient.NewTestClient(uniqueName("Dancer"), wsURL)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()
	client.ClearMessages()

	client.SendCommand("dance")
	if !client.WaitForMessage("Unknown command", replyTimeout) {
		return fail(testName, "no error for 'dance'")
	}
	return pass(testName, "Unknown command reported")
}

// TestIllegalAttack tests that attacking with nothing to fight is refused
func TestIllegalAttack(wsURL string) TestResult {
	const testName = "Illegal Attack"

	client, err := testclient.NewTestClient(uniqueName("Swinger"), wsURL)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()
	client.ClearMessages()

	client.SendCommand("attack")
	if !client.WaitForMessage("Cannot attack", replyTimeout) {
		return fail(testName, "attack at the entrance was not refused")
	}
	return pass(testName, "Attack refused outside an encounter")
}

// =============================================================================
// Group 2: Game Flow
// =============================================================================

// TestMovement tests that move leaves the entrance
func TestMovement(wsURL string) TestResult {
	const testName = "Movement"

	client, err := testclient.NewTestClient(uniqueName("Walker"), wsURL)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()
	client.ClearMessages()

	logAction(testName, "Moving forward")
	client.SendCommand("move")
	if !client.WaitForMessage("[HP", replyTimeout) {
		return fail(testName, "no reply to move")
	}
	client.ClearMessages()

	client.SendCommand("look")
	found := client.WaitForMessage("[Room 1 - ", replyTimeout)
	logResult(testName, found, "Now in room 1")
	if !found {
		return fail(testName, "look after move did not show room 1")
	}
	return pass(testName, "Moved into the first room")
}

// TestQuitEndsGame tests that quit ends the game and the connection
func TestQuitEndsGame(wsURL string) TestResult {
	const testName = "Quit Ends Game"

	client, err := testclient.NewTestClient(uniqueName("Quitter"), wsURL)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()
	client.ClearMessages()

	client.SendCommand("quit")
	if !client.WaitForMessage("QUEST HAS ENDED", replyTimeout) {
		return fail(testName, "quit did not end the quest")
	}
	if !client.WaitForClose(replyTimeout) {
		return fail(testName, "server kept the connection open after the game ended")
	}
	return pass(testName, "Game ended and connection closed")
}

// TestIndependentGames tests that two players do not share a dungeon
func TestIndependentGames(wsURL string) TestResult {
	const testName = "Independent Games"

	a, err := testclient.NewTestClient(uniqueName("First"), wsURL)
	if err != nil {
		return fail(testName, "Connection A failed: %v", err)
	}
	defer a.Close()
	b, err := testclient.NewTestClient(uniqueName("Second"), wsURL)
	if err != nil {
		return fail(testName, "Connection B failed: %v", err)
	}
	defer b.Close()

	logAction(testName, "A moves, B stays")
	a.ClearMessages()
	a.SendCommand("move")
	if !a.WaitForMessage("[HP", replyTimeout) {
		return fail(testName, "A got no reply to move")
	}

	b.ClearMessages()
	b.SendCommand("look")
	if !b.WaitForMessage("[Entrance]", replyTimeout) {
		return fail(testName, "B was moved by A's command")
	}
	return pass(testName, "Games are independent")
}

// =============================================================================
// Group 3: Server Protection
// =============================================================================

// TestRejectedName tests that a banned name never starts a game
func TestRejectedName(wsURL string) TestResult {
	const testName = "Rejected Name"

	client, err := testclient.NewTestClientRaw("DungeonAdmin", wsURL)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	if !client.WaitForMessage("not allowed", replyTimeout) {
		return fail(testName, "banned name was not rejected")
	}
	if !client.WaitForClose(replyTimeout) {
		return fail(testName, "connection stayed open after the rejection")
	}
	return pass(testName, "Banned name rejected")
}

// TestInvalidNameCharacters tests that markup in a name is refused
func TestInvalidNameCharacters(wsURL string) TestResult {
	const testName = "Invalid Name Characters"

	client, err := testclient.NewTestClientRaw("<b>Bold</b>", wsURL)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()

	if !client.WaitForMessage("may only contain", replyTimeout) {
		return fail(testName, "name with markup was not rejected")
	}
	return pass(testName, "Name with markup rejected")
}

// TestFloodLimit tests that a burst of commands is throttled. It needs
// websocket.max_commands below 30.
func TestFloodLimit(wsURL string) TestResult {
	const testName = "Flood Limit"

	client, err := testclient.NewTestClient(uniqueName("Spammer"), wsURL)
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer client.Close()
	client.ClearMessages()

	logAction(testName, "Sending 30 commands at once")
	for i := 0; i < 30; i++ {
		client.SendCommand("look")
	}
	found := client.WaitForMessage("too quickly", replyTimeout)
	logResult(testName, found, "Burst throttled")
	if !found {
		return fail(testName, "30 commands in a burst were not throttled")
	}
	return pass(testName, "Burst throttled")
}
