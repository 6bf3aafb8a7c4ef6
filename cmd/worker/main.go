package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"resume-vault/internal/bootstrap"
	"resume-vault/internal/queue"
	"resume-vault/internal/shared/config"
	"resume-vault/internal/shared/metrics"
	"resume-vault/internal/shared/telemetry"
	"resume-vault/internal/workerproc"
)

const (
	defaultVisibilitySeconds  = 300
	defaultWorkerConcurrency  = 2
	defaultShutdownTimeoutSec = 30
)

func main() {
	cfg := config.Load()

	if strings.TrimSpace(cfg.RenderQueueURL) == "" {
		telemetry.Error("worker.config_invalid", map[string]any{"error": "RENDER_QUEUE_URL is required"})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	visibilitySeconds := envInt("RENDER_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)
	concurrency := envInt("RENDER_WORKER_CONCURRENCY", defaultWorkerConcurrency)
	shutdownTimeout := time.Duration(envInt("RENDER_SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	sqsClient, err := queue.NewSQSClient(ctx, cfg.RenderQueueURL, cfg.AWSRegion)
	if err != nil {
		telemetry.Error("worker.sqs_init_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	app, err := bootstrap.BuildWithOptions(ctx, cfg, bootstrap.Options{SkipRouter: true, SkipProvider: true})
	if err != nil {
		telemetry.Error("worker.bootstrap_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	run(ctx, sqsClient.API(), sqsClient.QueueURL(), app.Tailoring, visibilitySeconds, concurrency, shutdownTimeout)
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

func run(ctx context.Context, client sqsAPI, queueURL string, r workerproc.Renderer, visibilitySeconds, concurrency int, shutdownTimeout time.Duration) {
	sem := make(chan struct{}, max(1, concurrency))
	var wg sync.WaitGroup

	telemetry.Info("worker.started", map[string]any{
		"queue":       queueURL,
		"concurrency": concurrency,
		"visibility":  visibilitySeconds,
	})

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		resp, err := client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   int32(visibilitySeconds),
			AttributeNames:      []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName("ApproximateReceiveCount")},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			telemetry.Error("worker.receive_failed", map[string]any{"error": err.Error()})
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			metrics.IncRenderJobsReceived()
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				handleMessage(ctx, client, queueURL, r, m)
			}(msg)
		}
	}

	telemetry.Info("worker.shutdown_requested", map[string]any{"timeout": shutdownTimeout.String()})
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		telemetry.Warn("worker.shutdown_timeout", map[string]any{"timeout": shutdownTimeout.String()})
	}
}

func handleMessage(ctx context.Context, client sqsAPI, queueURL string, r workerproc.Renderer, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)

	decoded, meta, err := workerproc.ParseMessage(body)
	if err != nil {
		fields := baseFields(msg, queue.Message{})
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		fields["error"] = err.Error()
		telemetry.Error("worker.render.decode_failed", fields)
		if deleteMessage(ctx, client, queueURL, msg, queue.Message{}) {
			metrics.IncRenderJobsDeletedUnrecoverable()
		}
		return
	}

	telemetry.Info("worker.render.received", baseFields(msg, decoded))

	ctxWithParsed := workerproc.WithParsedMessage(ctx, decoded)
	if err := workerproc.HandleMessage(ctxWithParsed, r, body); err != nil {
		fields := baseFields(msg, decoded)
		fields["error"] = err.Error()
		if workerproc.Unrecoverable(err) {
			telemetry.Warn("worker.render.dropped", fields)
			if deleteMessage(ctx, client, queueURL, msg, decoded) {
				metrics.IncRenderJobsDeletedUnrecoverable()
			}
			return
		}
		telemetry.Error("worker.render.failed", fields)
		metrics.IncRenderJobsFailed()
		return
	}

	if deleteMessage(ctx, client, queueURL, msg, decoded) {
		telemetry.Info("worker.render.completed", baseFields(msg, decoded))
		metrics.IncRenderJobsCompleted()
	}
}

func deleteMessage(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, job queue.Message) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields := baseFields(msg, job)
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.render.delete_failed", fields)
		return false
	}
	if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields := baseFields(msg, job)
		fields["error"] = err.Error()
		telemetry.Error("worker.render.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message, job queue.Message) map[string]any {
	fields := map[string]any{
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if job.JobApplicationID != "" {
		fields["job_application_id"] = job.JobApplicationID
		fields["version"] = job.Version
	}
	if strings.TrimSpace(job.RequestID) != "" {
		fields["request_id"] = job.RequestID
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	if msg.Attributes == nil {
		return 0
	}
	raw := msg.Attributes["ApproximateReceiveCount"]
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return def
	}
	return val
}
