package ws

import (
	"errors"

	"github.com/gorilla/websocket"
)

type messageInfo struct {
	msg             []byte
	needCompression bool
}

// Client wraps a websocket connection with buffered reader and writer
// channels so domain code never blocks directly on the network.
type Client struct {
	Conn *websocket.Conn
	R    chan []byte
	W    chan messageInfo
}

func NewClient(conn *websocket.Conn) *Client {
	if conn == nil {
		return nil
	}

	c := &Client{
		Conn: conn,
		R:    make(chan []byte, 128),
		W:    make(chan messageInfo, 128),
	}

	go c.runReader()
	go c.runWriter()
	return c
}

func (c *Client) runReader() {
	defer close(c.R)

	for {
		t, msg, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}

		if t == websocket.CloseMessage {
			return
		}

		if t == websocket.TextMessage {
			c.R <- msg
		}
	}
}

func (c *Client) runWriter() {
	for {
		info, ok := <-c.W
		if !ok {
			return
		}

		msg := info.msg
		if info.needCompression {
			var err error
			msg, err = Compress(info.msg)
			if err != nil {
				continue
			}

			if err := c.Conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				return
			}

			continue
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Write queues a message on the outbound channel. It recovers from writing
// to a closed channel after the connection went away.
func (c *Client) Write(msg []byte, needCompression bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if s, ok := r.(string); ok {
				err = errors.New(s)
			} else {
				err = errors.New("connection is closed")
			}
		}
	}()

	c.W <- messageInfo{msg: msg, needCompression: needCompression}
	return nil
}

func (c *Client) Close() error {
	close(c.W)
	return c.Conn.Close()
}
