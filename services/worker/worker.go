package worker

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/time/rate"

	"github.com/webfindlead/leadworker/internal/classify"
	"github.com/webfindlead/leadworker/internal/places"
	"github.com/webfindlead/leadworker/internal/scan"
	"github.com/webfindlead/leadworker/logger"
	"github.com/webfindlead/leadworker/services/publisher"
)

// classifierSource tags published lead events that carry a terminal tier.
const classifierSource = "classifier"

// WebsiteClassifier scores one website; always total, never fails.
type WebsiteClassifier interface {
	Classify(ctx context.Context, url string) classify.Analysis
}

// LeadUpdater applies a terminal analysis to a stored lead.
type LeadUpdater interface {
	UpdateClassification(ctx context.Context, identityKey string, analysis classify.Analysis) error
}

// Worker drains queued records through the classifier one at a time. Calls
// are staggered with a rate limiter rather than parallelized: classifier
// targets are unrelated third-party domains and an unthrottled burst risks
// cascading timeouts on our own network stack.
type Worker struct {
	ctx        context.Context
	classifier WebsiteClassifier
	store      LeadUpdater
	pub        publisher.Publisher
	limiter    *rate.Limiter
	jobs       chan scan.BusinessRecord
}

// NewWorker creates a classification worker. store and pub may be nil when
// persistence or fan-out is not configured.
func NewWorker(
	ctx context.Context,
	classifier WebsiteClassifier,
	store LeadUpdater,
	pub publisher.Publisher,
	stagger time.Duration,
	queueSize int,
) *Worker {
	limit := rate.Inf
	if stagger > 0 {
		limit = rate.Every(stagger)
	}
	if queueSize <= 0 {
		queueSize = 256
	}

	return &Worker{
		ctx:        ctx,
		classifier: classifier,
		store:      store,
		pub:        pub,
		limiter:    rate.NewLimiter(limit, 1),
		jobs:       make(chan scan.BusinessRecord, queueSize),
	}
}

// Enqueue queues records that carry a website for classification and
// reports how many were accepted. A full queue drops the remainder; the
// pipeline is best-effort and a dropped record simply keeps its pending
// tier until the next scan.
func (w *Worker) Enqueue(records []scan.BusinessRecord) int {
	log := logger.ForWorker()
	accepted := 0

	for _, record := range records {
		if record.Website == "" {
			continue
		}
		select {
		case w.jobs <- record:
			accepted++
		default:
			log.Warn().Str("name", record.Name).Msg("Classification queue full, dropping record")
		}
	}
	return accepted
}

// Start drains the queue until the context is cancelled. Every drained
// record ends in a terminal tier: classification failure itself maps to
// LOW_QUALITY inside the classifier, so nothing is ever left pending or
// silently dropped.
func (w *Worker) Start() {
	log := logger.ForWorker()
	log.Info().Msg("Classification worker started")

	for {
		select {
		case <-w.ctx.Done():
			log.Info().Msg("Classification worker stopped")
			return
		case record := <-w.jobs:
			if err := w.limiter.Wait(w.ctx); err != nil {
				return
			}
			w.classifyAndApply(record)
		}
	}
}

func (w *Worker) classifyAndApply(record scan.BusinessRecord) {
	log := logger.ForWorker()

	analysis := w.classifier.Classify(w.ctx, record.Website)

	record.WebsiteStatus = analysis.Status
	record.Socials = analysis.Socials
	if len(analysis.Emails) > 0 {
		record.Email = analysis.Emails[0]
	}

	key := places.IdentityKey(record.MapsLink, record.Name)

	if w.store != nil {
		if err := w.store.UpdateClassification(w.ctx, key, analysis); err != nil {
			log.Error().Err(err).Str("name", record.Name).Msg("Could not persist classification")
		}
	}

	if w.pub != nil {
		data, err := json.Marshal(record)
		if err != nil {
			log.Error().Err(err).Str("name", record.Name).Msg("Could not encode record")
			return
		}
		if err := w.pub.Publish(classifierSource, data); err != nil {
			log.Error().Err(err).Str("name", record.Name).Msg("Could not publish record")
		}
	}

	log.Debug().
		Str("name", record.Name).
		Str("website", record.Website).
		Str("status", string(record.WebsiteStatus)).
		Msg("Record classified")
}
