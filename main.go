package main

import (
	"embed"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/He-ro616/we4x-CO/internal/bootstrap"
	"github.com/He-ro616/we4x-CO/internal/config"
	"github.com/He-ro616/we4x-CO/internal/version"
)

//go:embed internal/templates/*
var templatesFS embed.FS

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		version.PrintVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "server":
		runServer()
	case "create-admin":
		runCreateAdmin(args[1:])
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [OPTIONS] COMMAND\n\n", os.Args[0])
	fmt.Println("we4x community and events server")
	fmt.Println("\nCommands:")
	fmt.Println("  server          Start the web server")
	fmt.Println("  create-admin    Create or promote an administrator")
	fmt.Println("                  --email EMAIL --password PASSWORD")
	fmt.Println("\nOptions:")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println("  -h, --help       Show this help message")
}

func runServer() {
	if err := bootstrap.Run(config.Load(), templatesFS); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func runCreateAdmin(args []string) {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	email := fs.String("email", "", "Administrator email address")
	password := fs.String("password", "", "Administrator password")
	_ = fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Usage: create-admin --email EMAIL --password PASSWORD")
		os.Exit(1)
	}

	if err := bootstrap.CreateAdmin(config.Load(), *email, *password); err != nil {
		log.Fatalf("Failed to create administrator: %v", err)
	}
}
