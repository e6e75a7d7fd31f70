package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	Rate(ctx context.Context, args []string) error
	Note(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Month(ctx context.Context, args []string) error
	Pending(ctx context.Context) error
	Sync(ctx context.Context) error
	Status(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Subscribe(ctx context.Context, args []string) error
	Unsubscribe(ctx context.Context) error
	TestPush(ctx context.Context) error
}

const helpText = `Available commands:
  rate <1-4|angry|sad|average|happy> [YYYY-MM-DD]   rate a day (today by default)
  note [text]                                        set notes of the shown day
  show [YYYY-MM-DD]                                  show a day
  month [YYYY-MM]                                    list a month
  pending                                            list ratings waiting to sync
  sync                                               sync now
  status                                             connection and queue status
  delete [YYYY-MM-DD]                                delete a rating (online only)
  export <YYYY-MM> [file]                            export a month as JSON
  subscribe <endpoint> <p256dh> <auth>               enable daily reminders
  unsubscribe                                        disable daily reminders
  testpush                                           send a test reminder
  exit | quit                                        leave the program`

// runREPL reads commands line by line from scanner and dispatches them to
// a until EOF, "exit" or "quit". The prompt shows statusFn().
//
// Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("rd %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "rate", "r":
			err = a.Rate(ctx, args)
		case "note", "n":
			err = a.Note(ctx, args)
		case "show":
			err = a.Show(ctx, args)
		case "month", "m":
			err = a.Month(ctx, args)
		case "pending":
			err = a.Pending(ctx)
		case "sync":
			err = a.Sync(ctx)
		case "status":
			err = a.Status(ctx)
		case "delete":
			err = a.Delete(ctx, args)
		case "export":
			err = a.Export(ctx, args)
		case "subscribe":
			err = a.Subscribe(ctx, args)
		case "unsubscribe":
			err = a.Unsubscribe(ctx)
		case "testpush":
			err = a.TestPush(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
