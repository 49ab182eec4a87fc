package application

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// KeepAliveWorker pings the service's own public URL so free hosting tiers don't idle it out
type KeepAliveWorker struct {
	pinger   Pinger
	url      string
	interval time.Duration
	timeout  time.Duration
}

// NewKeepAliveWorker creates a new keep-alive worker
func NewKeepAliveWorker(pinger Pinger, url string, interval, timeout time.Duration) *KeepAliveWorker {
	return &KeepAliveWorker{
		pinger:   pinger,
		url:      url,
		interval: interval,
		timeout:  timeout,
	}
}

// Start pings every interval until ctx is done or the returned function is called
func (w *KeepAliveWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.WithFields(log.Fields{
			"url":      w.url,
			"interval": w.interval,
		}).Info("Keep-alive worker started")

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Keep-alive worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Keep-alive worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				w.PingOnce(ctx)
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// PingOnce sends a single ping and logs the outcome
func (w *KeepAliveWorker) PingOnce(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if err := w.pinger.Ping(pingCtx, w.url); err != nil {
		log.WithError(err).Warn("Self-ping failed")
		return err
	}
	log.Debug("Self-ping OK")
	return nil
}
