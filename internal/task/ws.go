package task

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/momentics/pollnet-go/api"
	"github.com/momentics/pollnet-go/internal/mailbox"
	"github.com/momentics/pollnet-go/internal/runtime"
	"github.com/momentics/pollnet-go/internal/sockopt"
)

var wsDialer = websocket.Dialer{HandshakeTimeout: 10 * time.Second}
var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// RunWSClient connects to the WebSocket URL rawURL and serves the
// connection until closed. A malformed URL or failed handshake emits a
// single Error and returns.
func RunWSClient(rt *runtime.Runtime, log *logrus.Entry, rawURL string, outbound api.Outbound, inbox *mailbox.Mailbox) {
	log = log.WithFields(logrus.Fields{"task": "ws-client", "url": rawURL})
	defer inbox.Close()

	if _, err := url.Parse(rawURL); err != nil {
		log.WithError(err).Error("invalid WS URL")
		inbox.Send(api.ErrorMsg(err.Error()))
		return
	}

	log.Info("WS client attempting to connect")
	conn, _, err := wsDialer.Dial(rawURL, nil)
	if err != nil {
		log.WithError(err).Error("WS client connection error")
		inbox.Send(api.ErrorMsg(err.Error()))
		return
	}
	inbox.Send(api.Connect())
	serveWSConn(rt, log, conn, outbound, inbox)
}

// RunWSListener binds bind as an HTTP server whose only route upgrades
// every request to a WebSocket, accepting connections until closed.
func RunWSListener(rt *runtime.Runtime, log *logrus.Entry, bind string, outbound api.Outbound, inbox *mailbox.Mailbox) {
	log = log.WithFields(logrus.Fields{"task": "ws-listener", "bind": bind})
	log.Info("WS server spawned")
	defer inbox.Close()

	ln, err := sockopt.Listen(context.Background(), "tcp", bind)
	if err != nil {
		log.WithError(err).Error("WS listen error")
		inbox.Send(api.ErrorMsg(err.Error()))
		return
	}

	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			peer := r.RemoteAddr
			conn, err := wsUpgrader.Upgrade(w, r, nil)
			if err != nil {
				log.WithError(err).Warn("WS handshake failed")
				return
			}
			childOutbound, childInbox := NewPair()
			rt.Spawn("ws-accepted", func() {
				runWSAccepted(rt, log, conn, peer, childOutbound, childInbox)
			})
			inbox.Send(api.NewClientMsg(api.ClientChannel{
				Outbound: childOutbound,
				Inbound:  childInbox,
				PeerID:   peer,
			}))
		}),
	}

	serveErrs := make(chan error, 1)
	go func() { serveErrs <- srv.Serve(ln) }()

	log.Info("WS server waiting for connections")
	inbox.Send(api.Connect())

	for {
		select {
		case msg, ok := <-outbound:
			if !ok {
				_ = srv.Close()
				return
			}
			if msg.Kind == api.KindDisconnect {
				_ = srv.Close()
				return
			}
		case err := <-serveErrs:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("WS accept error")
				inbox.Send(api.ErrorMsg(err.Error()))
			}
			return
		case <-rt.Done():
			_ = srv.Close()
			return
		}
	}
}

func runWSAccepted(rt *runtime.Runtime, log *logrus.Entry, conn *websocket.Conn, peer string, outbound api.Outbound, inbox *mailbox.Mailbox) {
	log = log.WithFields(logrus.Fields{"task": "ws-accepted", "peer": peer})
	defer inbox.Close()
	inbox.Send(api.Connect())
	serveWSConn(rt, log, conn, outbound, inbox)
}

// serveWSConn drives an established WebSocket connection identically
// for clients and accepted peers: a background reader goroutine relays
// frames, and this loop multiplexes against the outbound channel. Both
// text and binary frames surface to the host as Binary, per spec.
func serveWSConn(rt *runtime.Runtime, log *logrus.Entry, conn *websocket.Conn, outbound api.Outbound, inbox *mailbox.Mailbox) {
	defer func() {
		log.Info("closing websocket")
		_ = conn.Close()
	}()

	frames := make(chan frame)
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				frames <- frame{closed: true, err: err}
				return
			}
			frames <- frame{data: data}
		}
	}()

	for {
		select {
		case msg, ok := <-outbound:
			if !ok {
				return
			}
			switch msg.Kind {
			case api.KindText:
				if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Text)); err != nil {
					log.WithError(err).Error("WS send error")
					inbox.Send(api.ErrorMsg(err.Error()))
					return
				}
			case api.KindBinary:
				if err := conn.WriteMessage(websocket.BinaryMessage, msg.Binary); err != nil {
					log.WithError(err).Error("WS send error")
					inbox.Send(api.ErrorMsg(err.Error()))
					return
				}
			default:
				return
			}
		case fr := <-frames:
			if fr.closed {
				if isWSCloseFrame(fr.err) {
					inbox.Send(api.Disconnect())
				} else {
					log.WithError(fr.err).Error("WS read error")
					inbox.Send(api.ErrorMsg(fr.err.Error()))
				}
				return
			}
			inbox.Send(api.BinaryMsg(fr.data))
		case <-rt.Done():
			return
		}
	}
}

func isWSCloseFrame(err error) bool {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return true
	}
	return isCleanClose(err)
}
