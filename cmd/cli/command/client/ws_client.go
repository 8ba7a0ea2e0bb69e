package client

// Interactive direct-message chat over the API's WebSocket endpoint.

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"
)

type chatEvent struct {
	Type       string `json:"type"`
	MessageID  int64  `json:"message_id,omitempty"`
	SenderID   string `json:"sender_id,omitempty"`
	SenderName string `json:"sender_name,omitempty"`
	ReceiverID string `json:"receiver_id,omitempty"`
	Content    string `json:"content"`
}

// OpenChat connects to the chat socket and relays stdin lines as direct
// messages to peerID until /quit or interrupt.
func OpenChat(apiURL, token, peerID string) error {
	u, err := url.Parse(apiURL)
	if err != nil {
		return fmt.Errorf("invalid API URL: %w", err)
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	wsURL := url.URL{Scheme: scheme, Host: u.Host, Path: "/api/ws"}

	header := http.Header{}
	header.Add("Authorization", "Bearer "+token)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), header)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer conn.Close()

	color.Green("Connected. Type your messages (/quit to exit)")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var ev chatEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				continue
			}
			switch ev.Type {
			case "chat":
				color.Cyan("[%s] %s", ev.SenderName, ev.Content)
			case "typing":
				color.HiBlack("%s is typing...", ev.SenderName)
			case "system":
				color.Yellow("* %s", ev.Content)
			case "error":
				color.Red("! %s", ev.Content)
			}
		}
	}()

	input := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			input <- scanner.Text()
		}
		close(input)
	}()

	for {
		select {
		case <-done:
			return nil
		case <-interrupt:
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil
		case line, ok := <-input:
			if !ok || strings.TrimSpace(line) == "/quit" {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			msg := chatEvent{Type: "chat", ReceiverID: peerID, Content: line}
			if err := conn.WriteJSON(msg); err != nil {
				return fmt.Errorf("send failed: %w", err)
			}
		}
	}
}
