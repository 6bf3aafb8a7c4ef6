package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"resume-vault/internal/bootstrap"
	"resume-vault/internal/shared/config"
	"resume-vault/internal/shared/metrics"
	"resume-vault/internal/shared/telemetry"
	"resume-vault/internal/workerproc"
)

var (
	initOnce sync.Once
	initErr  error
	renderer workerproc.Renderer
)

func initApp() {
	cfg := config.Load()
	built, err := bootstrap.BuildWithOptions(context.Background(), cfg, bootstrap.Options{SkipRouter: true, SkipProvider: true})
	if err != nil {
		initErr = err
		return
	}
	renderer = built.Tailoring
}

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("lambda_worker.bootstrap_failed", map[string]any{"error": initErr.Error()})
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, initErr
	}
	return processBatch(ctx, renderer, event), nil
}

// processBatch reports retryable failures back to SQS. Messages that can never
// succeed are acknowledged so they do not cycle until the DLQ.
func processBatch(ctx context.Context, r workerproc.Renderer, event events.SQSEvent) events.SQSEventResponse {
	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		metrics.IncRenderJobsReceived()
		err := workerproc.HandleMessage(ctx, r, record.Body)
		if err == nil {
			metrics.IncRenderJobsCompleted()
			continue
		}

		fields := map[string]any{"message_id": record.MessageId, "error": err.Error()}
		if workerproc.Unrecoverable(err) {
			metrics.IncRenderJobsDeletedUnrecoverable()
			telemetry.Warn("lambda_worker.message_dropped", fields)
			continue
		}
		metrics.IncRenderJobsFailed()
		telemetry.Error("lambda_worker.message_failed", fields)
		failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
	}
	return events.SQSEventResponse{BatchItemFailures: failures}
}

func main() {
	lambda.Start(handler)
}
