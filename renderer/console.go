package renderer

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sat8bit/kaiwa/bus"
	"github.com/sat8bit/kaiwa/message"
)

// NewConsoleRenderer は、w に1行ずつ会話を書き出すレンダラーを生成します。
// name は語り手の表示名です。
func NewConsoleRenderer(w io.Writer, name string) *ConsoleRenderer {
	return &ConsoleRenderer{w: w, name: name}
}

// ConsoleRenderer は、端末でない出力先（パイプ、ログ）向けのレンダラーです。
type ConsoleRenderer struct {
	w    io.Writer
	name string
}

func (c *ConsoleRenderer) Render(b bus.Bus, wg *sync.WaitGroup) error {
	ch := b.SubscribeBlocking()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for e := range ch {
			c.write(e)
		}
	}()

	return nil
}

func (c *ConsoleRenderer) write(e bus.Event) {
	switch e.Kind {
	case bus.KindRevealed:
		if e.Message == nil {
			return
		}
		who := c.name
		if e.Message.Sender == message.SenderUser {
			who = "you"
		}
		body := strings.ReplaceAll(Text(e.Message), "\n", "\n  ")
		fmt.Fprintf(c.w, "%s: %s\n", who, body)
	case bus.KindLog:
		fmt.Fprintf(c.w, "[!] %s\n", e.Text)
	case bus.KindSettled:
		fmt.Fprintln(c.w, "---")
	}
}

var _ Renderer = (*ConsoleRenderer)(nil)
