package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// RunREPL drives an interactive terminal session against the bot.
// Commands: summary, arbitrage, and quit/exit/bye. Everything else is
// treated as a question. Returns when the input closes, the user
// quits, or the context is cancelled.
func RunREPL(ctx context.Context, bot *Bot, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Prediction market chat. Type 'quit' to exit, 'summary' for market overview, 'arbitrage' for opportunities.")

	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		var (
			answer string
			err    error
		)
		switch strings.ToLower(input) {
		case "quit", "exit", "bye":
			fmt.Fprintln(out, "Goodbye.")
			return nil
		case "summary":
			answer, err = bot.Summary(ctx)
		case "arbitrage":
			answer, err = bot.Arbitrage(ctx)
		default:
			answer, err = bot.Ask(ctx, input)
		}

		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "\nAnalyst: %s\n", answer)
	}
}
