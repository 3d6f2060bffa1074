package task

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/momentics/pollnet-go/api"
	"github.com/momentics/pollnet-go/internal/mailbox"
	"github.com/momentics/pollnet-go/internal/overlay"
	"github.com/momentics/pollnet-go/internal/runtime"
	"github.com/momentics/pollnet-go/internal/sockopt"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// RunHTTPServer binds bind and serves requests through a virtual-file
// overlay with an optional static directory fallback. dir is nil for
// pollnet_serve_http (no static root) and non-nil for
// pollnet_serve_static_http. The outbound queue doubles as the server's
// control channel: FileAdd/FileRemove mutate the overlay,
// Disconnect/Error/close trigger graceful shutdown.
func RunHTTPServer(rt *runtime.Runtime, log *logrus.Entry, bind string, dir *string, shutdownTimeout time.Duration, outbound api.Outbound, inbox *mailbox.Mailbox) {
	log = log.WithFields(logrus.Fields{"task": "http-server", "bind": bind})
	log.Info("HTTP server spawned")
	defer inbox.Close()

	ln, err := sockopt.Listen(context.Background(), "tcp", bind)
	if err != nil {
		log.WithError(err).Error("HTTP listen error")
		inbox.Send(api.ErrorMsg(err.Error()))
		return
	}

	ov := overlay.New()

	var fileServer http.Handler
	if dir != nil {
		fileServer = http.FileServer(http.Dir(*dir))
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.NoRoute(func(c *gin.Context) {
		if data, ok := ov.Lookup(c.Request.URL.Path); ok {
			c.Data(http.StatusOK, http.DetectContentType(data), data)
			return
		}
		if fileServer != nil {
			fileServer.ServeHTTP(c.Writer, c.Request)
			return
		}
		c.Status(http.StatusNotFound)
	})

	srv := &http.Server{Handler: engine}
	serveErrs := make(chan error, 1)
	go func() { serveErrs <- srv.Serve(ln) }()

	log.WithField("addr", ln.Addr().String()).Info("HTTP server running")

	for {
		select {
		case msg, ok := <-outbound:
			if !ok {
				shutdownHTTP(log, srv, shutdownTimeout)
				return
			}
			switch msg.Kind {
			case api.KindFileAdd:
				ov.Add(msg.FileName, msg.FileData)
			case api.KindFileRemove:
				ov.Remove(msg.FileName)
			case api.KindDisconnect, api.KindError:
				shutdownHTTP(log, srv, shutdownTimeout)
				return
			default:
				// other kinds are meaningless to the HTTP task; ignored.
			}
		case err := <-serveErrs:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("HTTP server error")
				inbox.Send(api.ErrorMsg(err.Error()))
			}
			return
		case <-rt.Done():
			shutdownHTTP(log, srv, shutdownTimeout)
			return
		}
	}
}

func shutdownHTTP(log *logrus.Entry, srv *http.Server, timeout time.Duration) {
	log.Info("HTTP server trying to gracefully exit")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("HTTP graceful shutdown did not complete in time")
	}
	log.Info("HTTP server stopped")
}
