package main

import (
	"context"
	"fmt"
	"os"

	"bookvault/internal/config"
	"bookvault/internal/entrypoint"
	"bookvault/internal/store"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg := config.NewConfig()
	app := entrypoint.New(cfg)
	ctx := context.Background()

	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Stop()

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "lookup":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "usage: bookvault lookup <isbn>")
			os.Exit(1)
		}
		meta, err := app.Lookup(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s by %s (%d), %d pages\n", meta.Title, meta.Author, meta.Year, meta.Pages)

	case "add":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "usage: bookvault add <isbn>")
			os.Exit(1)
		}
		added, err := app.AddBook(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !added {
			fmt.Println("Already in the library.")
			return
		}
		fmt.Println("Added.")

	case "status":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "usage: bookvault status <isbn> <to-read|reading|completed>")
			os.Exit(1)
		}
		if err := app.UpdateStatus(ctx, args[0], store.Status(args[1])); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Updated.")

	case "show":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "usage: bookvault show <isbn>")
			os.Exit(1)
		}
		rec, ok, err := app.Show(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !ok {
			fmt.Println("Not in the library.")
			return
		}
		fmt.Printf("%s by %s [%s] %s\n", rec.Title, rec.Author, rec.ISBN.String(), rec.Status)

	case "rate":
		status := app.RateStatus()
		fmt.Printf("Remaining: %d, resets at %s\n", status.Remaining, status.ResetAt.Format("15:04:05"))

	case "version":
		fmt.Printf("bookvault %s (%s)\n", Version, Commit)

	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: bookvault <lookup|add|status|show|rate|version> [args]")
}
