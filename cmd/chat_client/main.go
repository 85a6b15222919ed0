package main

import (
	"bufio"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/gorilla/websocket"
)

// frame mirrors the server's websocket message shape
type frame struct {
	Type      string `json:"type"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

func main() {
	addr := flag.String("addr", "localhost:8080", "Address of the weather chat server")
	flag.Parse()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws/chat"}
	fmt.Printf("Connecting to %s...\n", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		fmt.Printf("Error connecting: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	// The server greets every new session
	var greeting frame
	if err := conn.ReadJSON(&greeting); err != nil {
		fmt.Printf("Error reading greeting: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s\n\n", greeting.Content)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "/quit" {
			break
		}

		if err := conn.WriteJSON(frame{Type: "message", Content: text}); err != nil {
			fmt.Printf("Error sending message: %v\n", err)
			os.Exit(1)
		}

		var reply frame
		if err := conn.ReadJSON(&reply); err != nil {
			fmt.Printf("Error reading reply: %v\n", err)
			os.Exit(1)
		}
		if reply.Type == "error" {
			fmt.Printf("[error] %s\n\n", reply.Content)
			continue
		}
		fmt.Printf("%s\n\n", reply.Content)
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
}
