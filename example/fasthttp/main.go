// FILE: lixenwraith/tierlog/example/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/tierlog"
	"github.com/lixenwraith/tierlog/compat"
)

func main() {
	logger, err := tierlog.NewBuilder().
		Name("web").
		Directory("./logs").
		LevelString("INFO").
		RotateSize(5 * 1000 * 1000).
		RetainCount(10).
		Console(tierlog.ConsoleStderr).
		Build()
	if err != nil {
		panic(err)
	}
	defer func() { _ = tierlog.Shutdown() }()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(tierlog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	server := &fasthttp.Server{
		Handler: requestHandler(logger),
		Logger:  fasthttpAdapter,

		Name:              "tierlog-example",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	logger.Info("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		logger.Criticalf("server stopped: %v", err)
	}
}

func requestHandler(logger *tierlog.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.SetContentType("text/plain")
		fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
		logger.Debugf("%s %s from %s", ctx.Method(), ctx.Path(), ctx.RemoteAddr())
	}
}

func customLevelDetector(msg string) (tierlog.Level, bool) {
	if strings.Contains(msg, "connection cannot be served") {
		return tierlog.LevelWarn, true
	}
	if strings.Contains(msg, "error when serving connection") {
		return tierlog.LevelError, true
	}

	// Fall back to keyword detection
	return compat.DetectLogLevel(msg)
}
