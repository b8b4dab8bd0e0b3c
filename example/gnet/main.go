// FILE: lixenwraith/tierlog/example/gnet/main.go
package main

import (
	"fmt"
	"os"

	"github.com/panjf2000/gnet/v2"

	"github.com/lixenwraith/tierlog"
	"github.com/lixenwraith/tierlog/compat"
)

// echoServer echoes every inbound byte and logs connection lifecycle through the engine logger
type echoServer struct {
	gnet.BuiltinEventEngine
	logger *tierlog.Logger
}

func (es *echoServer) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	es.logger.Infof("connection opened from %s", c.RemoteAddr())
	return nil, gnet.None
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, err := c.Next(-1)
	if err != nil {
		es.logger.Errorf("read from %s failed: %v", c.RemoteAddr(), err)
		return gnet.Close
	}
	if _, err := c.Write(buf); err != nil {
		es.logger.Warnf("echo to %s failed: %v", c.RemoteAddr(), err)
	}
	return gnet.None
}

func main() {
	logger, err := tierlog.InitWithDefaults(
		"name=echo",
		"directory=./logs",
		"minimum_level=DEBUG",
		"rotation_mode=time",
		"rotate_when=midnight",
		"retain_count=7",
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = tierlog.Shutdown() }()

	// gnet's own diagnostics land in the same tiered files
	gnetAdapter, err := compat.NewBuilder().WithLogger(logger).BuildGnet(
		compat.WithFatalHandler(func(msg string) {
			_ = tierlog.Shutdown()
			os.Exit(1)
		}),
	)
	if err != nil {
		panic(err)
	}

	err = gnet.Run(
		&echoServer{logger: logger},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		logger.Criticalf("echo server stopped: %v", err)
	}
}
