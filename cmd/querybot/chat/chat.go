// Package chatcmder provides an interactive chat client for a running
// query API server.
package chatcmder

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zubale/querybot/api"
	"github.com/zubale/querybot/pkg/config"
	"github.com/zubale/querybot/pkg/logger"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("assistant> ")
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	failMark        = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")
)

type chatCommander struct {
	apiTarget string
	userID    string
	debug     bool

	client *http.Client
	logger *zap.Logger
}

const chatLongDesc string = `Start an interactive chat session against a running query API server.

Each message is sent as one turn for the given user id, so the server
keeps the conversation history and follow-up questions like "and how
much is it?" work as expected.

Examples:
  querybot chat
  querybot chat --user alice
  querybot chat --api-target http://localhost:8080`

const chatShortDesc string = "Interactive chat against a running server"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg := config.FromViper(v)

			if !cmd.Flags().Changed("api-target") {
				cmder.apiTarget = cfg.Client.APITarget
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.apiTarget, "api-target", "a", defaults.Client.APITarget, "Query API server URL")
	cmd.Flags().StringVarP(&cmder.userID, "user", "u", "", "User id for the conversation (default: random)")

	return cmd
}

func (c *chatCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	c.client = &http.Client{Timeout: 5 * time.Minute}

	if c.userID == "" {
		c.userID = uuid.NewString()
	}

	fmt.Println()
	fmt.Printf("  %s\n", dimStyle.Render(fmt.Sprintf("Chatting as %s against %s", c.userID, c.apiTarget)))
	fmt.Printf("  %s\n\n", dimStyle.Render("Type your question and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		answer, err := c.send(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", failMark, err)
			continue
		}

		fmt.Printf("%s%s\n\n", assistantPrompt, answer)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

// send posts one query turn and returns the answer.
func (c *chatCommander) send(query string) (string, error) {
	body, err := json.Marshal(api.QueryRequest{
		UserID: c.userID,
		Query:  query,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	c.logger.Debug("sending query",
		zap.String("api_target", c.apiTarget),
		zap.String("user_id", c.userID),
	)

	resp, err := c.client.Post(c.apiTarget+"/query", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("sending query: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp api.ErrorResponse
		if json.Unmarshal(payload, &errResp) == nil && errResp.Error != "" {
			return "", fmt.Errorf("server error: %s", errResp.Error)
		}
		return "", fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var out api.QueryResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	return out.Answer, nil
}
