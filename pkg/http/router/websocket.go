package router

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gobwas/ws"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

/*
serveWebsocket. upgrade GET /ws and answer each text frame (a computeRoutes request as json) on the same connection.
every connection gets a reader goroutine, the hub closes all of them on shutdown.
*/
func (api *API) serveWebsocket(ctx context.Context) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, _, hs, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			api.log.Info("upgrade error", zap.Error(err), zap.String("remote_addr", r.RemoteAddr))
			return
		}

		// hijacked connections keep the server deadlines
		_ = conn.SetDeadline(time.Time{})

		api.log.Info("established websocket connection", zap.String("connection name", nameConn(conn)),
			zap.String("protocol", hs.Protocol))

		user := api.hub.Register(conn)
		go api.hub.Serve(ctx, user)
	}
}

func nameConn(conn net.Conn) string {
	return conn.LocalAddr().String() + " > " + conn.RemoteAddr().String()
}
