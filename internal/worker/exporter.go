package worker

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/tsunagu-circle/backend/internal/models"
	"github.com/tsunagu-circle/backend/internal/registrations"
	"github.com/tsunagu-circle/backend/pkg/queue"
	"github.com/tsunagu-circle/backend/pkg/storage"
)

// EventResolver loads events for export headers.
type EventResolver interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

// RosterExporter processes roster export jobs: load the event's registrations,
// render a CSV and upload it to the staff documents bucket.
type RosterExporter struct {
	roster *registrations.Repository
	events EventResolver
	s3     *storage.S3
	queue  *queue.Queue
	logger *zap.Logger
}

// NewRosterExporter creates a roster export processor.
func NewRosterExporter(roster *registrations.Repository, events EventResolver, s3 *storage.S3, q *queue.Queue, logger *zap.Logger) *RosterExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterExporter{roster: roster, events: events, s3: s3, queue: q, logger: logger}
}

// Process executes one roster export job.
func (p *RosterExporter) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeRosterExport {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.RosterExportPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	ev, err := p.events.GetByID(ctx, payload.EventID)
	if err != nil {
		return fmt.Errorf("event %d: %w", payload.EventID, err)
	}
	list, err := p.roster.ListByEvent(ctx, ev.ID)
	if err != nil {
		return fmt.Errorf("list registrations: %w", err)
	}

	body, err := renderCSV(ev, list)
	if err != nil {
		return fmt.Errorf("render csv: %w", err)
	}

	key := storage.ExportKey(ev.ID, time.Now())
	if err := p.s3.UploadDocument(ctx, key, "text/csv", bytes.NewReader(body)); err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	p.logger.Info("roster export completed",
		zap.Int64("event_id", ev.ID),
		zap.Int("rows", len(list)),
		zap.String("s3_key", key),
		zap.String("requested_by", payload.RequestedBy))
	return nil
}

// renderCSV writes one row per registration, newest first as stored.
func renderCSV(ev *models.Event, list []models.Registration) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"registration_id", "event_slug", "name", "phone", "hometown",
		"campus", "japanese_level", "japanese_motivation", "english_level", "registered_at",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, reg := range list {
		row := []string{
			strconv.FormatInt(reg.ID, 10),
			ev.Slug,
			reg.Name,
			reg.Phone,
			reg.Hometown,
			string(reg.Campus),
			string(reg.JapaneseLevel),
			string(reg.Motivation),
			string(reg.EnglishLevel),
			reg.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *RosterExporter) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("export worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}
