// Package main is the entry point for the roundel display.
package main

import (
	"fmt"
	"os"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		showUsage()
		return
	}

	switch os.Args[1] {
	case "run":
		path := os.Getenv("ROUNDEL_CONFIG")
		switch {
		case len(os.Args) > 3 && os.Args[2] == "--config":
			path = os.Args[3]
		case len(os.Args) > 2:
			path = os.Args[2]
		}
		if err := run(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "preview":
		name := "ambient"
		if len(os.Args) > 2 {
			name = os.Args[2]
		}
		previewMode(name)
	case "scan":
		scanForDevices()
	case "devices":
		if len(os.Args) > 3 && os.Args[2] == "forget" {
			forgetDevice(os.Args[3])
			return
		}
		listDevices()
	case "send":
		if len(os.Args) < 3 {
			fmt.Println("Error: IP address or device ID required")
			fmt.Println("Usage: roundel send <IP|device-id> [mode]")
			os.Exit(1)
		}
		name := "ambient"
		if len(os.Args) > 3 {
			name = os.Args[3]
		}
		sendToDevice(os.Args[2], name)
	case "version":
		fmt.Printf("roundel %s (built %s)\n", Version, BuildTime)
	default:
		showUsage()
	}
}

func showUsage() {
	fmt.Println("Roundel - radial display for a 240x240 round panel")
	fmt.Printf("Version: %s\n", Version)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  roundel run [--config file]   - Run the display daemon")
	fmt.Println("  roundel preview [mode]        - Show ASCII preview of a mode (ambient, transit, weather)")
	fmt.Println("  roundel scan                  - Find Pixoo mirrors and other roundel displays")
	fmt.Println("  roundel devices [forget <id>] - List or remove Pixoos saved by scan")
	fmt.Println("  roundel send <IP|id> [mode]   - Send a single frame to a Pixoo")
	fmt.Println("  roundel version               - Print version")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  ROUNDEL_CONFIG                - Config file used when run has no argument")
	fmt.Println("  ROUNDEL_<SECTION>_<KEY>       - Override any config key, e.g. ROUNDEL_WEATHER_API_KEY")
}
