// Package shutdown coordinates graceful termination of long-running
// commands.
//
// A Handler turns SIGINT and SIGTERM into context cancellation and runs
// registered cleanup hooks, newest first, under a timeout:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	ctx, stop := h.NotifyContext(context.Background())
//	defer stop()
//	h.OnShutdown(srv.Shutdown)
//	defer h.Shutdown()
package shutdown
