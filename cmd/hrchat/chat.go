package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/poiesic/hrchat"
	"github.com/poiesic/hrchat/core"
	"github.com/urfave/cli/v2"
)

const (
	appTitle     = "HR ChatBot"
	appSubtitle  = "Ask your HR related questions"
	inputPrompt  = "Enter your HR policy related query: "
	workingLabel = "Working on your query..."
)

// asker answers questions within one conversation.
type asker interface {
	Ask(ctx context.Context, question string) (core.QueryResponse, error)
}

func chatCommand(c *cli.Context) error {
	assistant, err := hrchat.Open(c.String("index"), openOptions(c)...)
	if err != nil {
		return err
	}
	defer assistant.Close()

	session, err := assistant.NewSession()
	if err != nil {
		return err
	}

	if c.Bool("plain") {
		return runREPL(c.Context, session, c.App.Reader, c.App.Writer)
	}

	program := tea.NewProgram(newChatModel(c.Context, session), tea.WithAltScreen(), tea.WithContext(c.Context))
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// runREPL reads one question per line until EOF or "exit".
func runREPL(ctx context.Context, session asker, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "%s\n%s\n\n", appTitle, appSubtitle)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, inputPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		switch question {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		fmt.Fprintln(out, workingLabel)
		resp, err := session.Ask(ctx, question)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "Error: %v\n\n", err)
			continue
		}

		fmt.Fprintf(out, "\n%s\n", resp.Answer)
		if sources := resp.Sources(); len(sources) > 0 {
			fmt.Fprintf(out, "Sources: %s\n", strings.Join(sources, ", "))
		}
		fmt.Fprintln(out)
	}
}
