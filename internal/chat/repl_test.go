package chat

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func replBot(answer string) (*Bot, *fakeGenerator) {
	gen := &fakeGenerator{answer: answer}
	return NewBot(Config{}, gen, &fakeRetriever{}, nil), gen
}

func TestREPLAnswersAndQuits(t *testing.T) {
	bot, _ := replBot("The spread is 0.10.")

	in := strings.NewReader("what is the spread?\nquit\n")
	var out bytes.Buffer

	if err := RunREPL(context.Background(), bot, in, &out); err != nil {
		t.Fatalf("RunREPL error: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "The spread is 0.10.") {
		t.Errorf("output missing answer:\n%s", output)
	}
	if !strings.Contains(output, "Goodbye.") {
		t.Errorf("output missing quit message:\n%s", output)
	}
}

func TestREPLCommands(t *testing.T) {
	bot, gen := replBot("ok")

	in := strings.NewReader("summary\narbitrage\nexit\n")
	var out bytes.Buffer

	if err := RunREPL(context.Background(), bot, in, &out); err != nil {
		t.Fatalf("RunREPL error: %v", err)
	}

	if len(gen.prompts) != 2 {
		t.Fatalf("prompts = %d, want 2", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "summary of all available prediction markets") {
		t.Errorf("summary command prompt = %q", gen.prompts[0])
	}
}

func TestREPLEOFEndsSession(t *testing.T) {
	bot, _ := replBot("ok")

	var out bytes.Buffer
	if err := RunREPL(context.Background(), bot, strings.NewReader(""), &out); err != nil {
		t.Fatalf("RunREPL error: %v", err)
	}
}

func TestREPLSkipsBlankLines(t *testing.T) {
	bot, gen := replBot("ok")

	in := strings.NewReader("\n   \nquit\n")
	var out bytes.Buffer

	if err := RunREPL(context.Background(), bot, in, &out); err != nil {
		t.Fatalf("RunREPL error: %v", err)
	}
	if len(gen.prompts) != 0 {
		t.Errorf("blank lines should not reach the bot, got %d prompts", len(gen.prompts))
	}
}
