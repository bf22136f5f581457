package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"chatwire/client"
	"chatwire/config"
	"chatwire/model"
	"chatwire/ui"
)

func NewChatCommand() *cobra.Command {
	var gatewayURL string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the chat window against a running gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				showStartupError("Configuration Error", err)
				return err
			}
			if gatewayURL != "" {
				cfg.Client.GatewayURL = gatewayURL
			}

			// The window owns the terminal; logs go to a file or nowhere
			closer := config.InitDebugLog(cfg.DataDir())
			defer closer.Close()

			c, err := client.New(cfg.Client.GatewayURL, client.WithTimeout(cfg.ClientTimeout()))
			if err != nil {
				showStartupError("Invalid Gateway URL", err)
				return err
			}

			store := model.NewStore(c, model.WithCallTimeout(cfg.ClientTimeout()))
			p := tea.NewProgram(
				ui.NewAppView(store, ui.Options{
					KeyBindings:  &cfg.KeyBindings,
					GatewayURL:   c.BaseURL(),
					PingInterval: cfg.PingInterval(),
					Version:      Version,
				}),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running chat window: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&gatewayURL, "gateway-url", "", "Gateway base URL, overrides [client] gateway_url")
	return cmd
}

// showStartupError shows err in a modal until dismissed.
func showStartupError(title string, err error) {
	p := tea.NewProgram(ui.NewErrorModal(title, err), tea.WithAltScreen())
	if _, runErr := p.Run(); runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
