package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/solburn/burnwatch/service/config"
	"github.com/solburn/burnwatch/service/temporal"
)

func scheduleCommands() *cli.Command {
	return &cli.Command{
		Name:  "schedule",
		Usage: "Manage the Temporal schedule that runs collection passes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "temporal-host",
				Usage:   "Temporal server address",
				EnvVars: []string{"TEMPORAL_HOST"},
				Value:   "localhost:7233",
			},
			&cli.StringFlag{
				Name:    "temporal-namespace",
				Usage:   "Temporal namespace",
				EnvVars: []string{"TEMPORAL_NAMESPACE"},
				Value:   "default",
			},
			&cli.StringFlag{
				Name:    "task-queue",
				Usage:   "Temporal task queue",
				EnvVars: []string{"TEMPORAL_TASK_QUEUE"},
				Value:   "burnwatch-scan",
			},
		},
		Subcommands: []*cli.Command{
			scheduleCreateCommand(),
			scheduleDeleteCommand(),
			schedulePauseCommand(),
			scheduleResumeCommand(),
			scheduleTriggerCommand(),
		},
	}
}

func getScheduler(c *cli.Context) (*temporal.Client, error) {
	return temporal.NewClient(
		c.String("temporal-host"),
		c.String("temporal-namespace"),
		c.String("task-queue"),
		setupLogger(c.String("log-level")),
	)
}

func scheduleCreateCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create the collection schedule from the environment configuration",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "interval",
				Usage:   "Interval between collection runs",
				EnvVars: []string{"SCAN_INTERVAL"},
				Value:   time.Hour,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			scheduler, err := getScheduler(c)
			if err != nil {
				return err
			}
			defer scheduler.Close()

			input := temporal.BurnReportInput{
				WalletAddress: cfg.WalletAddress,
				TokenMint:     cfg.TokenMint,
				BatchLimit:    cfg.BatchLimit,
				MaxPages:      cfg.MaxPages,
				SleepMs:       int(cfg.RequestDelay / time.Millisecond),
			}
			if err := scheduler.CreateScanSchedule(c.Context, input, c.Duration("interval")); err != nil {
				return err
			}

			fmt.Printf("created schedule (every %v)\n", c.Duration("interval"))
			return nil
		},
	}
}

func scheduleDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "Delete the collection schedule",
		Action: func(c *cli.Context) error {
			scheduler, err := getScheduler(c)
			if err != nil {
				return err
			}
			defer scheduler.Close()

			if err := scheduler.DeleteScanSchedule(c.Context); err != nil {
				return err
			}
			fmt.Println("deleted schedule")
			return nil
		},
	}
}

func schedulePauseCommand() *cli.Command {
	return &cli.Command{
		Name:  "pause",
		Usage: "Pause the collection schedule",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "note",
				Usage: "Note recorded on the schedule",
				Value: "paused via CLI",
			},
		},
		Action: func(c *cli.Context) error {
			scheduler, err := getScheduler(c)
			if err != nil {
				return err
			}
			defer scheduler.Close()

			if err := scheduler.PauseScanSchedule(c.Context, c.String("note")); err != nil {
				return err
			}
			fmt.Println("paused schedule")
			return nil
		},
	}
}

func scheduleResumeCommand() *cli.Command {
	return &cli.Command{
		Name:  "resume",
		Usage: "Resume a paused collection schedule",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "note",
				Usage: "Note recorded on the schedule",
				Value: "resumed via CLI",
			},
		},
		Action: func(c *cli.Context) error {
			scheduler, err := getScheduler(c)
			if err != nil {
				return err
			}
			defer scheduler.Close()

			if err := scheduler.ResumeScanSchedule(c.Context, c.String("note")); err != nil {
				return err
			}
			fmt.Println("resumed schedule")
			return nil
		},
	}
}

func scheduleTriggerCommand() *cli.Command {
	return &cli.Command{
		Name:  "trigger",
		Usage: "Request an immediate collection run",
		Action: func(c *cli.Context) error {
			scheduler, err := getScheduler(c)
			if err != nil {
				return err
			}
			defer scheduler.Close()

			if err := scheduler.TriggerScanSchedule(c.Context); err != nil {
				return err
			}
			fmt.Println("triggered schedule")
			return nil
		},
	}
}
