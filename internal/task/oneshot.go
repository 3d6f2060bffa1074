package task

import (
	"context"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/momentics/pollnet-go/api"
	"github.com/momentics/pollnet-go/internal/mailbox"
	"github.com/momentics/pollnet-go/internal/runtime"
)

// oneshotResult is what the background request goroutine hands back to
// the task's select loop.
type oneshotResult struct {
	body []byte
	err  error
}

func newOneshotClient() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.Logger = nil // single attempt only, no retry backoff noise
	c.RetryMax = 0
	return c
}

// RunHTTPGet issues a single GET to rawURL, emitting the response body
// as one Binary message then terminating, or an Error on failure.
// Receiving Disconnect on the outbound queue before completion cancels
// the in-flight request.
func RunHTTPGet(rt *runtime.Runtime, log *logrus.Entry, rawURL string, outbound api.Outbound, inbox *mailbox.Mailbox) {
	log = log.WithFields(logrus.Fields{"task": "http-get", "url": rawURL})
	log.Info("HTTP GET")
	defer inbox.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := newOneshotClient()
	done := make(chan oneshotResult, 1)
	go func() {
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			done <- oneshotResult{err: err}
			return
		}
		done <- doOneshot(client, req)
	}()

	runOneshot(rt, log, cancel, outbound, inbox, done)
}

// RunHTTPPost issues a single POST with the given content type and
// body, otherwise behaving like RunHTTPGet.
func RunHTTPPost(rt *runtime.Runtime, log *logrus.Entry, rawURL, contentType string, body []byte, outbound api.Outbound, inbox *mailbox.Mailbox) {
	log = log.WithFields(logrus.Fields{"task": "http-post", "url": rawURL, "content_type": contentType})
	log.Info("HTTP POST")
	defer inbox.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := newOneshotClient()
	done := make(chan oneshotResult, 1)
	go func() {
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, rawURL, body)
		if err != nil {
			done <- oneshotResult{err: err}
			return
		}
		req.Header.Set("Content-Type", contentType)
		done <- doOneshot(client, req)
	}()

	runOneshot(rt, log, cancel, outbound, inbox, done)
}

func doOneshot(client *retryablehttp.Client, req *retryablehttp.Request) oneshotResult {
	resp, err := client.Do(req)
	if err != nil {
		return oneshotResult{err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return oneshotResult{err: err}
	}
	return oneshotResult{body: body}
}

func runOneshot(rt *runtime.Runtime, log *logrus.Entry, cancel context.CancelFunc, outbound api.Outbound, inbox *mailbox.Mailbox, done <-chan oneshotResult) {
	for {
		select {
		case msg, ok := <-outbound:
			if !ok {
				cancel()
				return
			}
			if msg.Kind == api.KindDisconnect {
				cancel()
				return
			}
		case res := <-done:
			if res.err != nil {
				log.WithError(res.err).Error("HTTP one-shot request failed")
				inbox.Send(api.ErrorMsg(res.err.Error()))
				return
			}
			inbox.Send(api.BinaryMsg(res.body))
			return
		case <-rt.Done():
			cancel()
			return
		}
	}
}
