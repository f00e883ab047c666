package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/itchyny/gojq"
	"github.com/urfave/cli/v2"

	"github.com/solburn/burnwatch/service/store"
)

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Print the persisted burn report (or price snapshot) as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "Directory holding burn.json and price.json",
				EnvVars: []string{"DATA_DIR"},
				Value:   "data",
			},
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "jq expression applied to the report (e.g. '.burns[].amountUi')",
			},
			&cli.BoolFlag{
				Name:  "price",
				Usage: "Print price.json instead of burn.json",
			},
		},
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"))
			st := store.NewStore(c.String("data-dir"), nil, logger)

			var doc any
			if c.Bool("price") {
				snap, err := st.LoadPriceSnapshot()
				if err != nil {
					return err
				}
				doc = snap
			} else {
				report, err := st.LoadBurnReport()
				if err != nil {
					return err
				}
				doc = report
			}

			filter := c.String("filter")
			if filter == "" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			}

			query, err := gojq.Parse(filter)
			if err != nil {
				return fmt.Errorf("failed to parse jq filter %q: %w", filter, err)
			}
			code, err := gojq.Compile(query)
			if err != nil {
				return fmt.Errorf("failed to compile jq filter %q: %w", filter, err)
			}

			// gojq operates on untyped JSON values, so round-trip the
			// document through encoding/json first.
			raw, err := json.Marshal(doc)
			if err != nil {
				return err
			}
			var value any
			if err := json.Unmarshal(raw, &value); err != nil {
				return err
			}

			iter := code.Run(value)
			enc := json.NewEncoder(os.Stdout)
			for {
				v, ok := iter.Next()
				if !ok {
					break
				}
				if err, isErr := v.(error); isErr {
					return fmt.Errorf("jq filter failed: %w", err)
				}
				if err := enc.Encode(v); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
