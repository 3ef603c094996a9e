// Package websocket accepts WebSocket connections on the same listener as a
// server.Server, using gorilla/websocket.
//
//	srv := server.New(server.Options{Port: 8080}, files.Handle)
//	hub := websocket.New(srv, func(c *websocket.Client) {
//		for {
//			_, msg, err := c.Receive()
//			if err != nil {
//				return
//			}
//			_ = c.Send(msg)
//		}
//	})
//
// New may be called before or after the server starts. Connected clients are
// tracked until their handler returns; Clients and Broadcast operate on that
// set. Clients are closed with "going away" when the server shuts down.
package websocket
