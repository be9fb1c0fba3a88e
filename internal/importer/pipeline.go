package importer

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/leadflow/internal/campaigns"
	"github.com/wolfman30/leadflow/internal/leads"
	"github.com/wolfman30/leadflow/internal/observability/metrics"
	"github.com/wolfman30/leadflow/pkg/logging"
)

var pipelineTracer = otel.Tracer("leadflow/importer")

// DefaultBatchSize is the chunk size used when a caller does not ask
// for another one.
const DefaultBatchSize = 50

// Progress is emitted after every chunk, success or failure. Processed
// always advances by the chunk's candidate count, so it reaches Total
// exactly once.
type Progress struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Created   int `json:"created"`
	Errors    int `json:"errors"`
}

// Result aggregates one whole ingestion call. Skipped counts the
// candidates dropped before submission for lacking both a client name
// and an email; they are not errors. Campaign carries the last
// server-refreshed stats snapshot.
type Result struct {
	Created  int                 `json:"created"`
	Errors   int                 `json:"errors"`
	Skipped  int                 `json:"skipped"`
	Campaign *campaigns.Campaign `json:"campaign,omitempty"`
}

// Options tunes one Run call.
type Options struct {
	// BatchSize caps chunk size; zero or negative means DefaultBatchSize.
	BatchSize int
	// OnProgress, when set, is invoked synchronously after each chunk,
	// strictly between one chunk's submission and the next.
	OnProgress func(Progress)
}

// Importer drives chunked ingestion of candidates into a campaign.
// Batches are submitted strictly sequentially; each batch's refreshed
// stats snapshot supersedes the previous one wholesale.
type Importer struct {
	campaigns    leads.CampaignStore
	store        leads.Store
	metrics      *metrics.ImportMetrics
	logger       *logging.Logger
	defaultBatch int
}

// NewImporter creates an importer. metrics may be nil.
func NewImporter(campaignStore leads.CampaignStore, store leads.Store, m *metrics.ImportMetrics, logger *logging.Logger) *Importer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Importer{
		campaigns:    campaignStore,
		store:        store,
		metrics:      m,
		logger:       logger,
		defaultBatch: DefaultBatchSize,
	}
}

// SetDefaultBatchSize overrides the chunk size used when a call does
// not ask for one.
func (imp *Importer) SetDefaultBatchSize(n int) {
	if n > 0 {
		imp.defaultBatch = n
	}
}

// Run ingests candidates into the campaign in fixed-size chunks. A
// campaign whose status does not admit ingestion fails the whole call
// before any candidate is processed. A chunk whose submission fails
// counts every one of its candidates as an error and does not stop the
// chunks after it.
func (imp *Importer) Run(ctx context.Context, orgID, campaignID string, candidates []leads.Candidate, opts Options) (*Result, error) {
	ctx, span := pipelineTracer.Start(ctx, "importer.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("leadflow.org_id", orgID),
		attribute.String("campaign.id", campaignID),
		attribute.Int("candidates.count", len(candidates)),
	)

	campaign, err := imp.campaigns.GetByID(ctx, orgID, campaignID)
	if err != nil {
		return nil, err
	}
	if !campaigns.CanIngest(campaign.Status) {
		return nil, campaigns.ErrNotIngestible
	}

	result := &Result{Campaign: campaign}
	identified := make([]leads.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Identified() {
			identified = append(identified, c)
		} else {
			result.Skipped++
		}
	}
	imp.metrics.ObserveCandidates("skipped", result.Skipped)

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = imp.defaultBatch
	}

	total := len(identified)
	processed := 0
	for start := 0; start < total; start += batchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		end := start + batchSize
		if end > total {
			end = total
		}
		chunk := identified[start:end]

		began := time.Now()
		batch, err := imp.store.CreateBatch(ctx, orgID, campaignID, chunk)
		if err != nil {
			// A failed chunk counts all of its candidates as errors
			// and must not abort the chunks behind it.
			imp.metrics.ObserveBatch("failed", time.Since(began).Seconds())
			imp.metrics.ObserveCandidates("error", len(chunk))
			imp.logger.Error("batch submission failed", "error", err,
				"campaign_id", campaignID, "batch_size", len(chunk))
			result.Errors += len(chunk)
		} else {
			imp.metrics.ObserveBatch("ok", time.Since(began).Seconds())
			imp.metrics.ObserveCandidates("created", batch.Created)
			imp.metrics.ObserveCandidates("error", batch.Errors)
			result.Created += batch.Created
			result.Errors += batch.Errors
			result.Campaign = batch.Campaign
		}

		processed += len(chunk)
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{
				Total:     total,
				Processed: processed,
				Created:   result.Created,
				Errors:    result.Errors,
			})
		}
	}

	span.SetAttributes(
		attribute.Int("result.created", result.Created),
		attribute.Int("result.errors", result.Errors),
		attribute.Int("result.skipped", result.Skipped),
	)
	imp.logger.Info("import finished", "campaign_id", campaignID,
		"created", result.Created, "errors", result.Errors, "skipped", result.Skipped)
	return result, nil
}
