// Command loadtest drives synthetic players against a running lobby server.
//
// Each bot dials the WebSocket endpoint, joins the lobby, waits for its
// session to fill, submits a score, and waits for the final results
// broadcast. The command prints per-session latencies and an overall
// pass/fail summary, which makes it useful both as a smoke test and as a
// quick capacity probe.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v3"
)

type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type joinRequest struct {
	Name string `json:"name"`
}

type joinedPayload struct {
	SessionID string `json:"sessionId"`
}

type findPayload struct {
	Connected bool   `json:"connected"`
	SessionID string `json:"sessionId"`
}

type submitScoreRequest struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
}

type scoreAckPayload struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type scoreReadyPayload struct {
	SessionID string `json:"sessionId"`
	Scores    []struct {
		Name  string `json:"name"`
		Score int    `json:"score"`
	} `json:"scores"`
}

// botResult captures one bot's run for the final report.
type botResult struct {
	name        string
	sessionID   string
	joinToFind  time.Duration
	findToReady time.Duration
	err         error
}

// bot is a single synthetic player driving one WebSocket connection.
type bot struct {
	name    string
	url     string
	timeout time.Duration
}

func (b *bot) run(ctx context.Context) botResult {
	result := botResult{name: b.name}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, b.url, nil)
	if err != nil {
		result.err = fmt.Errorf("dial %s: %w", b.url, err)
		return result
	}
	defer conn.Close()

	if err := b.send(conn, "join", joinRequest{Name: b.name}); err != nil {
		result.err = err
		return result
	}
	joinedAt := time.Now()

	// joined arrives first with our session assignment, find follows once
	// the session fills.
	var joined joinedPayload
	if err := b.await(conn, "joined", &joined); err != nil {
		result.err = err
		return result
	}
	result.sessionID = joined.SessionID

	var find findPayload
	if err := b.await(conn, "find", &find); err != nil {
		result.err = err
		return result
	}
	result.joinToFind = time.Since(joinedAt)
	if !find.Connected {
		result.err = fmt.Errorf("find broadcast reported connected=false")
		return result
	}
	// The broadcast may be for another session that filled first. Keep our
	// own assignment for the score submission.
	foundAt := time.Now()

	score := rand.Intn(1000)
	if err := b.send(conn, "submit-score", submitScoreRequest{
		SessionID: result.sessionID,
		Name:      b.name,
		Score:     score,
	}); err != nil {
		result.err = err
		return result
	}

	var ack scoreAckPayload
	if err := b.await(conn, "score-ack", &ack); err != nil {
		result.err = err
		return result
	}
	if ack.Status != "success" {
		result.err = fmt.Errorf("score rejected: %s", ack.Message)
		return result
	}

	// Wait for the results broadcast for our own session.
	deadline := time.Now().Add(b.timeout)
	for {
		var ready scoreReadyPayload
		if err := b.awaitUntil(conn, "score-ready", &ready, deadline); err != nil {
			result.err = err
			return result
		}
		if ready.SessionID != result.sessionID {
			continue
		}
		if len(ready.Scores) == 0 {
			result.err = fmt.Errorf("score-ready carried no scores")
			return result
		}
		result.findToReady = time.Since(foundAt)
		return result
	}
}

func (b *bot) send(conn *websocket.Conn, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event, err)
	}
	if err := conn.WriteJSON(envelope{Event: event, Payload: data}); err != nil {
		return fmt.Errorf("send %s: %w", event, err)
	}
	return nil
}

func (b *bot) await(conn *websocket.Conn, event string, out interface{}) error {
	return b.awaitUntil(conn, event, out, time.Now().Add(b.timeout))
}

// awaitUntil reads envelopes until the wanted event arrives, skipping
// broadcasts for other sessions and surfacing server error events.
func (b *bot) awaitUntil(conn *websocket.Conn, event string, out interface{}, deadline time.Time) error {
	for {
		if err := conn.SetReadDeadline(deadline); err != nil {
			return err
		}
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			return fmt.Errorf("waiting for %s: %w", event, err)
		}
		switch env.Event {
		case event:
			if err := json.Unmarshal(env.Payload, out); err != nil {
				return fmt.Errorf("decode %s payload: %w", event, err)
			}
			return nil
		case "error":
			var msg struct {
				Message string `json:"message"`
			}
			_ = json.Unmarshal(env.Payload, &msg)
			return fmt.Errorf("server error while waiting for %s: %s", event, msg.Message)
		default:
			// Unrelated broadcast, keep reading.
		}
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "loadtest",
		Usage: "drive synthetic players against a lobby server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Value: "ws://localhost:4000/ws",
				Usage: "WebSocket endpoint of the lobby server",
			},
			&cli.IntFlag{
				Name:  "players",
				Value: 4,
				Usage: "number of synthetic players to connect",
			},
			&cli.IntFlag{
				Name:  "ramp-ms",
				Value: 50,
				Usage: "delay between bot launches in milliseconds",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 30 * time.Second,
				Usage: "per-event wait timeout for each bot",
			},
		},
		Action: runLoadTest,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func runLoadTest(ctx context.Context, cmd *cli.Command) error {
	url := cmd.String("url")
	players := int(cmd.Int("players"))
	ramp := time.Duration(cmd.Int("ramp-ms")) * time.Millisecond
	timeout := cmd.Duration("timeout")

	if players <= 0 {
		return fmt.Errorf("players must be positive, got %d", players)
	}

	log.Printf("Launching %d players against %s", players, url)

	results := make([]botResult, players)
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < players; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := &bot{
				name:    fmt.Sprintf("bot-%03d", i),
				url:     url,
				timeout: timeout,
			}
			results[i] = b.run(ctx)
		}(i)
		time.Sleep(ramp)
	}

	wg.Wait()
	elapsed := time.Since(start)

	return report(results, elapsed)
}

func report(results []botResult, elapsed time.Duration) error {
	sessions := make(map[string]int)
	var failed int
	var totalFind, totalReady time.Duration
	var completed int

	for _, r := range results {
		if r.err != nil {
			failed++
			log.Printf("FAIL %s: %v", r.name, r.err)
			continue
		}
		sessions[r.sessionID]++
		totalFind += r.joinToFind
		totalReady += r.findToReady
		completed++
	}

	fmt.Printf("\n=== Load Test Summary ===\n")
	fmt.Printf("Players:    %d\n", len(results))
	fmt.Printf("Completed:  %d\n", completed)
	fmt.Printf("Failed:     %d\n", failed)
	fmt.Printf("Sessions:   %d\n", len(sessions))
	fmt.Printf("Elapsed:    %s\n", elapsed.Round(time.Millisecond))
	if completed > 0 {
		fmt.Printf("Avg join->find:       %s\n", (totalFind / time.Duration(completed)).Round(time.Millisecond))
		fmt.Printf("Avg find->score-ready: %s\n", (totalReady / time.Duration(completed)).Round(time.Millisecond))
	}
	for id, n := range sessions {
		if n > 4 {
			fmt.Printf("WARNING: session %s reported by %d bots (capacity is 4)\n", id, n)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d players failed", failed, len(results))
	}
	return nil
}
