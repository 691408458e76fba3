// Package main provides a CLI tool for seeding a directory with demo data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"hermes/pkg/logger"
)

var cli struct {
	Demo     DemoCmd  `cmd:"" default:"1" help:"Create demo organizations and employees."`
	Token    TokenCmd `cmd:"" help:"Print a development access token."`
	LogLevel string   `help:"Log level." default:"info" env:"LOG_LEVEL"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("seed"),
		kong.Description("Seed a Hermes directory."),
	)

	log, err := logger.New(logger.Config{
		Level:       cli.LogLevel,
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.Bind(log)
	kctx.FatalIfErrorf(kctx.Run())
}
