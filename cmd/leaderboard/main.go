package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/scythe504/snake-arena/internal/client"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	serverURL := flag.String("server", "http://localhost:3000", "coordination server base url")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	entries, err := client.NewAPI(*serverURL, nil).Leaderboard(ctx)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Rank", "Player", "Score", "When"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for i, e := range entries {
		table.Append([]string{
			strconv.Itoa(i + 1),
			e.PlayerName,
			strconv.Itoa(e.Score),
			e.Timestamp.Local().Format(time.DateTime),
		})
	}
	table.Render()

	if len(entries) == 0 {
		fmt.Println("No scores yet")
	}
	return nil
}
