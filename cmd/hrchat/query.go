package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/hrchat"
	"github.com/poiesic/hrchat/core"
	"github.com/poiesic/hrchat/retrieval"
	"github.com/urfave/cli/v2"
)

func questionArg(c *cli.Context) (string, error) {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return "", errors.New("a question is required")
	}
	return question, nil
}

func queryCommand(c *cli.Context) error {
	question, err := questionArg(c)
	if err != nil {
		return err
	}

	assistant, err := hrchat.Open(c.String("index"), openOptions(c)...)
	if err != nil {
		return err
	}
	defer assistant.Close()

	var monitor retrieval.RetrievalMonitor
	if c.Bool("explain") {
		monitor = &explainMonitor{w: c.App.ErrWriter}
	}
	result, err := assistant.RetrieveWithMonitor(c.Context, question, monitor)
	if err != nil {
		return err
	}

	printChunks(c.App.Writer, result)
	return nil
}

func printChunks(w io.Writer, result core.RetrievalResult) {
	for _, c := range result.Chunks {
		fmt.Fprintln(w, "##---------page ------##")
		fmt.Fprintln(w, c.Chunk.Source)
		fmt.Fprintln(w, "##---------content ------##")
		fmt.Fprintln(w, c.Chunk.Text)
	}
}

func askCommand(c *cli.Context) error {
	question, err := questionArg(c)
	if err != nil {
		return err
	}

	assistant, err := hrchat.Open(c.String("index"), openOptions(c)...)
	if err != nil {
		return err
	}
	defer assistant.Close()

	resp, err := assistant.Ask(c.Context, question)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, resp.Answer)
	if sources := resp.Sources(); len(sources) > 0 {
		fmt.Fprintf(c.App.Writer, "\nSources: %s\n", strings.Join(sources, ", "))
	}
	return nil
}

// explainMonitor prints each retrieval step.
type explainMonitor struct {
	w io.Writer
}

var _ retrieval.RetrievalMonitor = (*explainMonitor)(nil)

func (m *explainMonitor) Start(question string) {
	fmt.Fprintf(m.w, "question: %q\n", question)
}

func (m *explainMonitor) AfterEmbedding(vector []float32) {
	fmt.Fprintf(m.w, "embedded into %d dimensions\n", len(vector))
}

func (m *explainMonitor) AfterQuery(chunks []core.ScoredChunk) {
	for i, c := range chunks {
		fmt.Fprintf(m.w, "%2d. %.4f  %s #%d\n", i+1, c.Score, c.Chunk.Source, c.Chunk.Index)
	}
}

func (m *explainMonitor) Finish(result core.RetrievalResult) {
	fmt.Fprintf(m.w, "retrieved %d chunks\n", len(result.Chunks))
}
