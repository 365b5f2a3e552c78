// Command history prints the stored chat log from a live or stopped
// server's BadgerDB without going through the HTTP API.
package main

import (
	"chat-room/domain"
	"chat-room/internal"
	"chat-room/repositories"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

func main() {
	// 1. Load config
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	limit := flag.Int("limit", config.HistoryLimit, "Number of messages to print")
	users := flag.Bool("users", false, "Print the user roster instead of messages")
	flag.Parse()

	// 2. Open Badger in Read-Only mode
	// Note: BypassLockGuard allows opening if another process (the server) holds the lock
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if *users {
		printUsers(db)
		return
	}
	printMessages(db, *limit)
}

func printMessages(db *badger.DB, limit int) {
	messages, err := repositories.NewMessageRepository(db, internal.GetLoggerFromString("ERROR")).
		Recent(limit)
	if err != nil {
		log.Fatalf("Failed to read messages: %v", err)
	}

	table := newTable()
	table.SetHeader([]string{"Time", "Sender", "Content"})

	for _, message := range messages {
		sender := message.Sender
		if message.Kind == domain.KindSystem {
			sender = color.New(color.FgYellow).Render(sender)
		} else {
			sender = color.New(color.FgGreen).Render(sender)
		}
		table.Append([]string{
			message.At.Format("2006-01-02 15:04:05"),
			sender,
			message.Content,
		})
	}
	table.Render()
	fmt.Printf("\n%d message(s)\n", len(messages))
}

func printUsers(db *badger.DB) {
	records, err := repositories.NewPresenceRepository(db).All()
	if err != nil {
		log.Fatalf("Failed to read users: %v", err)
	}

	table := newTable()
	table.SetHeader([]string{"Username", "Status", "Last Seen"})

	for _, record := range records {
		status := color.New(color.FgRed).Render("offline")
		if record.Online {
			status = color.New(color.FgGreen).Render("online")
		}
		table.Append([]string{
			record.Username,
			status,
			record.LastSeen.Format("2006-01-02 15:04:05"),
		})
	}
	table.Render()
	fmt.Printf("\n%d user(s)\n", len(records))
}

func newTable() *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
