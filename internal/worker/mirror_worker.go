package worker

import (
	"context"
	"log/slog"
	"time"

	"prereq-orchestrator/internal/domain"
	"prereq-orchestrator/internal/usecase"
)

const jobTimeout = 10 * time.Second

// MirrorWorker applies resolved topics to the shared graph store off
// the request path, through a bounded queue. When the queue is full the
// job is dropped: mirroring is best effort and must never back-pressure
// request handling.
type MirrorWorker struct {
	mirror   *usecase.GraphMirror
	jobs     chan domain.Topic
	stopChan chan struct{}
	done     chan struct{}
	logger   *slog.Logger
}

// NewMirrorWorker creates a worker with the given queue capacity.
func NewMirrorWorker(mirror *usecase.GraphMirror, queueSize int, logger *slog.Logger) *MirrorWorker {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &MirrorWorker{
		mirror:   mirror,
		jobs:     make(chan domain.Topic, queueSize),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

func (w *MirrorWorker) Start() {
	w.logger.Info("Starting MirrorWorker")
	go w.run()
}

// Stop drains nothing: queued jobs not yet processed are discarded.
func (w *MirrorWorker) Stop() {
	w.logger.Info("Stopping MirrorWorker")
	close(w.stopChan)
	<-w.done
}

// Enqueue submits a topic for mirroring. Returns false when the queue
// is full and the job was dropped.
func (w *MirrorWorker) Enqueue(topic domain.Topic) bool {
	select {
	case w.jobs <- topic:
		return true
	default:
		w.logger.Warn("mirror queue full, dropping job", slog.String("topic", topic.Title))
		return false
	}
}

func (w *MirrorWorker) run() {
	defer close(w.done)
	for {
		select {
		case <-w.stopChan:
			return
		case topic := <-w.jobs:
			w.process(topic)
		}
	}
}

func (w *MirrorWorker) process(topic domain.Topic) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := w.mirror.MirrorTopic(ctx, topic); err != nil {
		w.logger.Warn("mirror job failed",
			slog.String("topic", topic.Title),
			slog.String("error", err.Error()))
		return
	}
	w.logger.Debug("mirror job completed",
		slog.String("topic", topic.Title),
		slog.Int("prereqs", len(topic.Prereqs)))
}
