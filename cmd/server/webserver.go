package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/marben/mandelview/internal/config"
)

// maxMessageSize bounds client commands; they are small JSON objects.
const maxMessageSize = 4 << 10

// webServer creates a server serving files from the static folder and the websocket endpoint.
// Sessions are cancelled along with ctx.
func webServer(ctx context.Context, cfg config.Config) *http.Server {
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newMux(ctx, cfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("listening on http://localhost%s", cfg.Server.Addr)
	return srv
}

func newMux(ctx context.Context, cfg config.Config) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(ctx, cfg))
	mux.Handle("/", http.FileServer(http.Dir(cfg.Server.StaticDir)))
	return mux
}

// websocketHandler handles the http ws endpoint.
// If the websocket is successfully initialized, it is served by a new session until either side hangs up.
func websocketHandler(ctx context.Context, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // TODO: tighten in prod
		})
		if err != nil {
			log.Println(err)
			return
		}
		c.SetReadLimit(maxMessageSize)

		s := newSession(c, cfg)
		s.logf("got connection from: %s", r.RemoteAddr)

		ctx, cancel := mergeCancel(ctx, r.Context())
		defer cancel()
		err = s.serve(ctx)
		s.close(err)
	}
}

// mergeCancel returns a context derived from a that is also cancelled when b is done.
func mergeCancel(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(a)
	stop := context.AfterFunc(b, func() { cancel(context.Cause(b)) })
	return ctx, func() {
		stop()
		cancel(context.Canceled)
	}
}
