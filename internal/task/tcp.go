package task

import (
	"context"
	"net"

	"github.com/sirupsen/logrus"

	"github.com/momentics/pollnet-go/api"
	"github.com/momentics/pollnet-go/internal/mailbox"
	"github.com/momentics/pollnet-go/internal/runtime"
	"github.com/momentics/pollnet-go/internal/sockopt"
)

// RunTCPClient dials addr and, on success, serves the connection until
// closed. On dial failure it emits a single Error and returns.
func RunTCPClient(rt *runtime.Runtime, log *logrus.Entry, addr string, outbound api.Outbound, inbox *mailbox.Mailbox) {
	log = log.WithFields(logrus.Fields{"task": "tcp-client", "addr": addr})
	log.Info("TCP client attempting to connect")
	defer inbox.Close()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		log.WithError(err).Error("TCP client connection error")
		inbox.Send(api.ErrorMsg(err.Error()))
		return
	}
	inbox.Send(api.Connect())
	serveTCPConn(rt, log, conn, outbound, inbox)
}

// RunTCPListener binds bind and accepts connections until closed,
// spawning a fresh accepted-TCP task (via rt) for each one.
func RunTCPListener(rt *runtime.Runtime, log *logrus.Entry, bind string, outbound api.Outbound, inbox *mailbox.Mailbox) {
	log = log.WithFields(logrus.Fields{"task": "tcp-listener", "bind": bind})
	log.Info("TCP server spawned")
	defer inbox.Close()

	ln, err := sockopt.Listen(context.Background(), "tcp", bind)
	if err != nil {
		log.WithError(err).Error("TCP listen error")
		inbox.Send(api.ErrorMsg(err.Error()))
		return
	}
	defer ln.Close()

	log.Info("TCP server waiting for connections")
	inbox.Send(api.Connect())

	accepted := make(chan net.Conn)
	acceptErrs := make(chan error, 1)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				acceptErrs <- err
				return
			}
			accepted <- c
		}
	}()

	for {
		select {
		case msg, ok := <-outbound:
			if !ok {
				return
			}
			switch msg.Kind {
			case api.KindDisconnect:
				return
			default:
				// Listener sockets ignore sends; any other kind is a no-op.
			}
		case c := <-accepted:
			peer := c.RemoteAddr().String()
			childOutbound, childInbox := NewPair()
			rt.Spawn("tcp-accepted", func() {
				runTCPAccepted(rt, log, c, peer, childOutbound, childInbox)
			})
			inbox.Send(api.NewClientMsg(api.ClientChannel{
				Outbound: childOutbound,
				Inbound:  childInbox,
				PeerID:   peer,
			}))
		case err := <-acceptErrs:
			log.WithError(err).Error("TCP accept error")
			inbox.Send(api.ErrorMsg(err.Error()))
			return
		case <-rt.Done():
			return
		}
	}
}

func runTCPAccepted(rt *runtime.Runtime, log *logrus.Entry, conn net.Conn, peer string, outbound api.Outbound, inbox *mailbox.Mailbox) {
	log = log.WithFields(logrus.Fields{"task": "tcp-accepted", "peer": peer})
	defer inbox.Close()
	inbox.Send(api.Connect())
	serveTCPConn(rt, log, conn, outbound, inbox)
}

// serveTCPConn drives an already-established TCP connection: a
// background reader goroutine relays inbound bytes as frames, and the
// main loop here multiplexes between the outbound (host->task) channel
// and those frames until one side asks to stop.
func serveTCPConn(rt *runtime.Runtime, log *logrus.Entry, conn net.Conn, outbound api.Outbound, inbox *mailbox.Mailbox) {
	defer func() {
		log.Info("closing TCP socket")
		_ = conn.Close()
	}()

	frames := make(chan frame)
	go func() {
		buf := make([]byte, ReadBufferSize)
		for {
			n, err := conn.Read(buf)
			if n > 0 {
				cp := make([]byte, n)
				copy(cp, buf[:n])
				frames <- frame{data: cp}
			}
			if err != nil {
				frames <- frame{closed: true, err: err}
				return
			}
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
				if _, err := conn.Write([]byte(msg.Text)); err != nil {
					log.WithError(err).Error("TCP send error")
					inbox.Send(api.ErrorMsg(err.Error()))
					return
				}
			case api.KindBinary:
				if _, err := conn.Write(msg.Binary); err != nil {
					log.WithError(err).Error("TCP send error")
					inbox.Send(api.ErrorMsg(err.Error()))
					return
				}
			default:
				return
			}
		case fr := <-frames:
			if len(fr.data) > 0 {
				inbox.Send(api.BinaryMsg(fr.data))
			}
			if fr.closed {
				if isCleanClose(fr.err) {
					inbox.Send(api.Disconnect())
				} else {
					log.WithError(fr.err).Error("TCP read error")
					inbox.Send(api.ErrorMsg(fr.err.Error()))
				}
				return
			}
		case <-rt.Done():
			return
		}
	}
}
