package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
)

// StartInteractiveMode starts the interactive, line-oriented REPL against
// the server at socketPath, mirroring the teacher's cobra/readline
// interactive client loop (cmd/cli/internal/interactive) but sending each
// line straight through as a statement instead of routing it through a
// command tree — the wire grammar here (spec §6) already is the command
// language.
func StartInteractiveMode(socketPath string) error {
	conn, err := dial(socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "coldb> ",
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize interactive mode: %v", err)
	}
	defer rl.Close()

	fmt.Println("Connected to", socketPath)
	fmt.Println("Type a statement per line; 'exit' or Ctrl+D to leave the client (the server keeps running).")

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Println("exit")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		resp, err := sendStatement(conn, r, w, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return err
		}
		printResponse(resp)
	}
}

// ExecOnce sends a single statement and prints the response, for
// non-interactive invocation (coldb-client exec '...').
func ExecOnce(socketPath, stmt string) error {
	conn, err := dial(socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)

	resp, err := sendStatement(conn, r, w, stmt)
	if err != nil {
		return err
	}
	printResponse(resp)
	return nil
}

func printResponse(resp response) {
	if len(resp.Payload) > 0 {
		os.Stdout.Write(resp.Payload)
	}
	if resp.Status != "OK_DONE" && resp.Status != "OK_WAIT_FOR_RESPONSE" {
		fmt.Fprintln(os.Stderr, resp.Status)
	}
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.coldb_history"
}
