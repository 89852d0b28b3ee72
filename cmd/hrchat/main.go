// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "hrchat",
		Usage: "Answer HR policy questions from a corpus of HTML pages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"HRCHAT_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load settings from this dotenv file; a missing file is ignored",
				Value: ".env",
			},
		},
		Before: before,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Build the vector index from the policy corpus",
				Action: ingestCommand,
				Flags:  concat(indexFlags(), providerFlags(), ingestFlags()),
			},
			{
				Name:      "query",
				Usage:     "Print the chunks retrieved for a question",
				ArgsUsage: "QUESTION",
				Action:    queryCommand,
				Flags: concat(indexFlags(), providerFlags(), []cli.Flag{
					topKFlag(),
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Print the steps of the retrieval",
					},
				}),
			},
			{
				Name:      "ask",
				Usage:     "Answer a single question without conversation history",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags:     concat(indexFlags(), providerFlags(), answerFlags()),
			},
			{
				Name:   "chat",
				Usage:  "Start an interactive chat session",
				Action: chatCommand,
				Flags: concat(indexFlags(), providerFlags(), answerFlags(), []cli.Flag{
					&cli.IntFlag{
						Name:    "history-limit",
						Usage:   "Number of recent turns sent to the model (0 for all)",
						EnvVars: []string{"HRCHAT_HISTORY_LIMIT"},
					},
					&cli.BoolFlag{
						Name:  "plain",
						Usage: "Use a line-oriented prompt instead of the full-screen interface",
					},
				}),
			},
		},
	}
}

// before loads the dotenv file and configures logging. Command flags read
// their EnvVars after this runs, so the file can supply any setting.
func before(c *cli.Context) error {
	if err := loadEnv(c.String("env-file")); err != nil {
		return err
	}
	return setupLogger(c)
}

// loadEnv loads path into the process environment without overriding
// variables that are already set.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
