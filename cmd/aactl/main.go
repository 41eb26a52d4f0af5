// Command aactl is the operator CLI for a running aa-alert service.
//
// Usage:
//
//	aactl status
//	aactl channel set 123456789012345678 --token $ADMIN_TOKEN
//	aactl mute 30 --token $ADMIN_TOKEN
//	aactl unmute --token $ADMIN_TOKEN
//	aactl test
//	aactl ping
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	apiBase string
	token   string
)

func main() {
	root := &cobra.Command{
		Use:   "aactl",
		Short: "Operator CLI for the aa-alert service",
	}
	root.PersistentFlags().StringVar(&apiBase, "api", envOr("AACTL_API", "http://localhost:8000"), "Base URL of the aa-alert admin API")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("ADMIN_TOKEN"), "Admin bearer token for mutating commands")

	root.AddCommand(statusCmd())
	root.AddCommand(channelCmd())
	root.AddCommand(muteCmd())
	root.AddCommand(unmuteCmd())
	root.AddCommand(testCmd())
	root.AddCommand(pingCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current alert configuration and upcoming occurrences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/status", nil, false)
		},
	}
}

func channelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Manage the alert destination channel",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <channel-id>",
		Short: "Set the alert destination channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/channel",
				map[string]string{"channel_id": args[0]}, true)
		},
	})
	return cmd
}

func muteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mute <minutes>",
		Short: "Mute alerts for the given number of minutes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil || minutes <= 0 {
				return fmt.Errorf("minutes must be a positive integer, got %q", args[0])
			}
			return call(http.MethodPost, "/api/v1/mute",
				map[string]int{"minutes": minutes}, true)
		},
	}
}

func unmuteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unmute",
		Short: "Clear an active mute window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodDelete, "/api/v1/mute", nil, true)
		},
	}
}

func testCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send a test embed to the alert channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/test", nil, false)
		},
	}
}

func pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check service liveness",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/health", nil, false)
		},
	}
}

// call performs one admin API request and prints the response body.
func call(method, path string, payload interface{}, authed bool) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if token == "" {
			return fmt.Errorf("this command requires --token (or ADMIN_TOKEN)")
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	fmt.Println(string(bytes.TrimSpace(respBody)))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
