package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rxtech-lab/dionysus/internal/counselor"
	"github.com/urfave/cli/v3"
)

func counselorCommand() *cli.Command {
	return &cli.Command{
		Name:      "counselor",
		Usage:     "Parse a counselor line and describe it",
		ArgsUsage: "\"MACD-CROSSOVER 12 26 9\"",
		Action:    counselorAction,
	}
}

func counselorAction(_ context.Context, cmd *cli.Command) error {
	text := strings.Join(cmd.Args().Slice(), " ")

	c, err := counselor.Parse(text)
	if err != nil {
		return err
	}

	if err := c.Validate(); err != nil {
		return err
	}

	indicators := make([]string, 0, len(c.Indicators()))
	for _, ind := range c.Indicators() {
		indicators = append(indicators, ind.String())
	}

	w := cmd.Root().Writer
	fmt.Fprintln(w, TitleStyle.Render(c.Name()))
	fmt.Fprintf(w, "%s%d samples\n", LabelStyle.Render("Lookback"), c.RequiredSamples())
	fmt.Fprintf(w, "%s%s\n", LabelStyle.Render("Indicators"), strings.Join(indicators, ", "))

	return nil
}
