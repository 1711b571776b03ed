package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	"github.com/blockedby/crypto-digest/internal/config"
	"github.com/blockedby/crypto-digest/internal/logger"
	"github.com/blockedby/crypto-digest/internal/telegram"
)

var (
	useQR        bool
	printSession bool
)

var rootCmd = &cobra.Command{
	Use:   "tg-auth",
	Short: "Log in to telegram and store the session used by the collector",
	Long: `Runs an interactive telegram login (phone + code, or --qr to scan a code
from the telegram app) and stores the session in TG_SESSION_FILE so later
collector runs start without prompting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVar(&useQR, "qr", false, "Log in by scanning a QR code")
	rootCmd.Flags().BoolVar(&printSession, "print-session", false, "Also print a session string for TG_SESSION_STRING")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	fmt.Println("=== telegram auth tool ===")
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(cfg.LogLevel, ""); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	if err := cfg.ValidateTelegram(); err != nil {
		return err
	}
	// the session file is the target here
	cfg.TGSessionString = ""

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if useQR {
		return authWithQR(ctx, cfg)
	}
	return authWithPhone(ctx, cfg)
}

// authWithQR shows login QR codes until one is scanned.
func authWithQR(ctx context.Context, cfg *config.Config) error {
	manager := telegram.NewManager(cfg)

	fmt.Println("open telegram > settings > devices > link desktop device and scan:")
	err := manager.StartQR(ctx, func(url string) {
		fmt.Println()
		qrterminal.GenerateHalfBlock(url, qrterminal.L, os.Stdout)
		fmt.Println("waiting for scan... (the code refreshes automatically)")
	})
	if err != nil {
		return err
	}

	fmt.Println("\n✓ authentication successful!")
	fmt.Printf("session saved to: %s\n", cfg.TGSessionFile)
	return nil
}

// authWithPhone runs the phone + code login into the session file.
func authWithPhone(ctx context.Context, cfg *config.Config) error {
	if cfg.TGPhone == "" {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("enter your phone number (with country code, e.g. +1234567890): ")
		phone, _ := reader.ReadString('\n')
		cfg.TGPhone = strings.TrimSpace(phone)
	}
	if cfg.TGPhone == "" {
		return fmt.Errorf("phone number is required")
	}

	fmt.Println("\nauthenticating... (check telegram for code)")

	client, err := telegram.NewPersistentClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Stop()

	fmt.Println("\n✓ authentication successful!")
	fmt.Printf("logged in as: @%s\n", client.Self.Username)
	fmt.Printf("session saved to: %s\n", cfg.TGSessionFile)

	if printSession {
		sessionString, err := client.ExportStringSession()
		if err != nil {
			return fmt.Errorf("export session: %w", err)
		}
		fmt.Println("\nyour session string:")
		fmt.Println("---")
		fmt.Println(sessionString)
		fmt.Println("---")
		fmt.Println("\nadd this to your .env file as TG_SESSION_STRING")
		fmt.Println("\n⚠️  keep this secret! it provides full access to your telegram account")
	}

	return nil
}
