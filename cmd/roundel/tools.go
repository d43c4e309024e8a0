package main

import (
	"context"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/roundel/internal/config"
	"github.com/jwulff/roundel/internal/discovery"
	"github.com/jwulff/roundel/internal/display"
	"github.com/jwulff/roundel/internal/domain"
	"github.com/jwulff/roundel/internal/mode"
	"github.com/jwulff/roundel/internal/pixoo"
	"github.com/jwulff/roundel/internal/render"
	"github.com/jwulff/roundel/internal/storage"
	"github.com/jwulff/roundel/internal/storage/sqlite"
)

// previewSize is the edge of the ASCII preview.
const previewSize = 60

// renderMode draws the first frame of a mode from simulated sources.
func renderMode(name string) (*domain.Frame, error) {
	index, ok := buttonFor(name)
	if !ok {
		return nil, fmt.Errorf("unknown mode %q", name)
	}

	cfg, err := config.Load(os.Getenv("ROUNDEL_CONFIG"))
	if err != nil {
		return nil, err
	}
	cfg.Hardware.Enabled = false
	cfg.Transit.BaseURL = ""
	cfg.Weather.APIKey = ""
	cfg.Weather.Simulate = true

	logger := zerolog.Nop()
	sensors, _, err := openSensors(cfg, logger)
	if err != nil {
		return nil, err
	}

	screen := display.New(display.Config{
		Surface: render.NewCanvas(domain.DisplaySize, domain.DisplaySize),
		Logger:  logger,
	})
	modes, err := buildModes(deps{cfg: cfg, sensor: sensors, display: screen, logger: logger})
	if err != nil {
		return nil, err
	}
	ctrl := mode.NewController(mode.ControllerConfig{
		Light:     sensors,
		Threshold: cfg.LightThreshold,
		Logger:    logger,
	}, modes...)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ctrl.Start(ctx); err != nil {
		return nil, err
	}
	if index != 0 {
		if err := ctrl.HandleButton(ctx, index); err != nil {
			return nil, err
		}
	}

	p, ok := screen.Latest()
	if !ok {
		return nil, fmt.Errorf("mode %s drew nothing", name)
	}
	return p.Frame, nil
}

func previewMode(name string) {
	frame, err := renderMode(name)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s preview (%dx%d, scaled from %dx%d):\n", name, previewSize, previewSize, frame.Width, frame.Height)
	fmt.Println()
	printFrameASCII(pixoo.Downscale(frame, previewSize))
	fmt.Println()
	fmt.Println("Legend: █=bright ▓=medium ▒=dim ░=faint ·=very dim (space)=off")
}

func scanForDevices() {
	fmt.Println("Scanning for Pixoo devices on local network...")
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	devices, err := pixoo.ScanForDevices(ctx, func(current, total int) {
		pct := current * 100 / total
		bar := strings.Repeat("█", pct/5) + strings.Repeat("░", 20-pct/5)
		fmt.Printf("\r  [%s] %d%% (%d/%d)", bar, pct, current, total)
	})
	fmt.Println()

	if err != nil {
		fmt.Printf("\nError: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	if len(devices) == 0 {
		fmt.Println("No Pixoo devices found.")
	} else {
		fmt.Printf("Found %d device(s):\n", len(devices))
		fmt.Println()
		for i, device := range devices {
			fmt.Printf("  %d. %s - %s\n", i+1, device.Name, device.IP)
		}
		saveDevices(ctx, devices)
		fmt.Println()
		fmt.Println("To mirror the display, set:")
		fmt.Printf("  ROUNDEL_DISPLAY_PIXOO_IP=%s\n", devices[0].IP)
	}

	fmt.Println()
	fmt.Println("Looking for other roundel displays...")
	peers, err := discovery.Browse(context.Background(), 3*time.Second)
	if err != nil {
		fmt.Printf("  Warning: mDNS browse failed: %v\n", err)
		return
	}
	if len(peers) == 0 {
		fmt.Println("  None found.")
		return
	}
	for _, p := range peers {
		fmt.Printf("  %s - http://%s:%d %s\n", p.Instance, p.IP, p.Port, strings.Join(p.Text, " "))
	}
}

// openStore opens the store named by the active config.
func openStore() (*sqlite.Store, error) {
	cfg, err := config.Load(os.Getenv("ROUNDEL_CONFIG"))
	if err != nil {
		return nil, err
	}
	return sqlite.NewFileStore(cfg.StorePath)
}

func saveDevices(ctx context.Context, devices []pixoo.DiscoveredDevice) {
	store, err := openStore()
	if err != nil {
		fmt.Printf("  Warning: devices not saved: %v\n", err)
		return
	}
	defer store.Close()

	for _, d := range devices {
		if err := store.SaveDevice(ctx, d.ToDevice()); err != nil {
			fmt.Printf("  Warning: could not save %s: %v\n", d.IP, err)
		}
	}
}

// listDevices prints the mirrors saved by scan.
func listDevices() {
	store, err := openStore()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	devices, err := store.GetDevices(context.Background())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if len(devices) == 0 {
		fmt.Println("No saved devices. Run 'roundel scan' first.")
		return
	}
	for _, d := range devices {
		fmt.Printf("  %s  %-15s %s (last seen %s)\n", d.ID, d.IP, d.Name, d.LastSeen.Format(time.RFC3339))
	}
}

// forgetDevice removes a saved mirror.
func forgetDevice(id string) {
	store, err := openStore()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.DeleteDevice(context.Background(), id); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Forgot %s\n", id)
}

// resolveTarget maps a saved device ID to its IP. Anything else is used as given.
func resolveTarget(ctx context.Context, target string) string {
	if _, err := netip.ParseAddr(target); err == nil {
		return target
	}
	store, err := openStore()
	if err != nil {
		return target
	}
	defer store.Close()

	device, err := store.GetDevice(ctx, target)
	if err != nil {
		if !storage.IsNotFound(err) {
			fmt.Printf("  Warning: device lookup failed: %v\n", err)
		}
		return target
	}
	return device.IP
}

func sendToDevice(target, name string) {
	ip := resolveTarget(context.Background(), target)
	fmt.Printf("Sending %s frame to Pixoo at %s...\n", name, ip)

	frame, err := renderMode(name)
	if err != nil {
		fmt.Printf("\nError: %v\n", err)
		os.Exit(1)
	}
	client := pixoo.NewClient(ip)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if !client.IsReachable(ctx) {
		fmt.Printf("\nError: Cannot reach Pixoo at %s\n", ip)
		fmt.Println("Make sure the IP is correct and the device is powered on.")
		os.Exit(1)
	}

	if err := client.ResetGifID(ctx); err != nil {
		fmt.Printf("\nError resetting animation: %v\n", err)
		os.Exit(1)
	}
	if err := client.SendFrame(ctx, pixoo.Downscale(frame, pixoo.MirrorSize), 1); err != nil {
		fmt.Printf("\nError sending frame: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Frame sent successfully!")
}

// printFrameASCII renders the frame as ASCII art
func printFrameASCII(frame *domain.Frame) {
	fmt.Print("  ┌")
	fmt.Print(strings.Repeat("─", frame.Width))
	fmt.Println("┐")

	for y := 0; y < frame.Height; y++ {
		fmt.Printf("%2d│", y)
		for x := 0; x < frame.Width; x++ {
			pixel := frame.GetPixel(x, y)
			if pixel == nil {
				fmt.Print(" ")
				continue
			}

			brightness := (int(pixel.R) + int(pixel.G) + int(pixel.B)) / 3

			switch {
			case brightness > 200:
				fmt.Print("█")
			case brightness > 150:
				fmt.Print("▓")
			case brightness > 100:
				fmt.Print("▒")
			case brightness > 50:
				fmt.Print("░")
			case brightness > 10:
				fmt.Print("·")
			default:
				fmt.Print(" ")
			}
		}
		fmt.Println("│")
	}

	fmt.Print("  └")
	fmt.Print(strings.Repeat("─", frame.Width))
	fmt.Println("┘")
}
