package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/dionysus/internal/config"
	"github.com/rxtech-lab/dionysus/internal/strategy"
	"github.com/rxtech-lab/dionysus/pkg/utils"
	"github.com/urfave/cli/v3"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of strategy record files or of the run configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Schema to print (records, config)",
				Value: "records",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the schema to this path instead of stdout",
			},
		},
		Action: schemaAction,
	}
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	var (
		schemaJSON string
		err        error
	)

	switch kind := cmd.String("kind"); kind {
	case "records":
		schemaJSON, err = strategy.GenerateSchemaJSON()
	case "config":
		schemaJSON, err = utils.GetSchemaFromConfig(&config.Config{}, "dionysus-config")
	default:
		return fmt.Errorf("unknown schema kind %q", kind)
	}

	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	output := cmd.String("output")
	if output == "" {
		fmt.Fprintln(cmd.Root().Writer, schemaJSON)

		return nil
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(output, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}

	fmt.Fprintf(cmd.Root().Writer, "Schema written to %s\n", output)

	return nil
}
