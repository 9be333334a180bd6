// wsprobe connects to the live-updates endpoint with a bearer token and
// prints every event the server pushes. Handy for watching reward and
// gallery events during development.
package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/api/v1/live", "live endpoint")
	token := flag.String("token", "", "bearer token from /auth/login")
	flag.Parse()

	if *token == "" {
		log.Fatal("a -token is required")
	}

	header := http.Header{}
	header.Add("Authorization", "Bearer "+*token)

	conn, _, err := websocket.DefaultDialer.Dial(*url, header)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer conn.Close()

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			log.Println("read error:", err)
			return
		}

		log.Printf("Received:\n%s\n", p)
	}
}
