package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/usecase"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/jitter"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const (
	defaultBatchSize = 10
	notifyWait       = 30 * time.Second
	backoffBase      = time.Second
	backoffMax       = 30 * time.Second
	sendAttempts     = 3
	staleAfter       = 5 * time.Minute
)

// OutboxWorker пересылает события из outbox в брокер. Новые события приходят
// через LISTEN, а при старте и по таймауту ожидания выгребаются накопившиеся.
type OutboxWorker struct {
	repo      usecase.OutboxRepository
	logger    logger.Logger
	producer  usecase.MessageProducer
	channel   string
	batchSize int
	dbConnStr string
	stop      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	backoff   *jitter.Backoff
	sleep     func(ctx context.Context, d time.Duration)
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	dbConnStr string,
	channel string,
	batchSize int,
) *OutboxWorker {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &OutboxWorker{
		repo:      repo,
		logger:    logger,
		producer:  producer,
		channel:   channel,
		batchSize: batchSize,
		dbConnStr: dbConnStr,
		stop:      make(chan struct{}),
		backoff:   jitter.NewBackoff(backoffBase, backoffMax, jitter.DefaultFactor),
		sleep:     sleepCtx,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		defer cancel()
		select {
		case <-ctx.Done():
		case <-w.stop:
		}
	}()

	go func() {
		defer w.wg.Done()
		w.requeueStale(ctx)
		w.drain(ctx)
		w.listenOutboxNotifications(ctx)
	}()
}

// Stop останавливает воркер и дожидается завершения горутин.
func (w *OutboxWorker) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.stop) })

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// requeueStale возвращает в очередь события, которые предыдущий процесс
// взял в работу, но не успел отправить.
func (w *OutboxWorker) requeueStale(ctx context.Context) {
	n, err := w.repo.RequeueStale(ctx, staleAfter)
	if err != nil {
		w.logger.Warnf("outbox requeue of stale events failed: %v", err)
		return
	}
	if n > 0 {
		w.logger.Infof("outbox: %d stale events returned to pending", n)
	}
}

// drain обрабатывает пачки, пока в outbox есть ожидающие события.
func (w *OutboxWorker) drain(ctx context.Context) {
	for {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			if ctx.Err() == nil {
				w.logger.Warnf("outbox batch failed: %v", err)
			}
			return
		}
		if !hasMore {
			return
		}
	}
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	var conn *pgx.Conn

	connect := func() error {
		var err error
		conn, err = pgx.Connect(ctx, w.dbConnStr)
		if err != nil {
			return e.Wrap("failed to connect for LISTEN", err)
		}

		if _, err = conn.Exec(ctx, "LISTEN "+w.channel); err != nil {
			conn.Close(context.Background())
			conn = nil
			return e.Wrap("failed to LISTEN", err)
		}

		w.logger.Infof("Subscribed to '%s' channel", w.channel)
		return nil
	}

	attempt := 0
	for ctx.Err() == nil {
		if conn == nil {
			if err := connect(); err != nil {
				delay := w.backoff.Delay(attempt)
				w.logger.Warnf("outbox listener connect failed, retry in %s: %v", delay, err)
				attempt++
				w.sleep(ctx, delay)
				continue
			}
			attempt = 0
			// события могли появиться, пока соединения не было
			w.drain(ctx)
		}

		waitCtx, cancel := context.WithTimeout(ctx, notifyWait)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				// уведомлений не было, подбираем возвращённые в очередь события
				w.drain(ctx)
				continue
			}
			if errors.Is(err, context.Canceled) {
				continue
			}
			w.logger.Warnf("Connection lost: %v. Reconnecting...", err)
			conn.Close(context.Background())
			conn = nil
			continue
		}

		if notif != nil && notif.Channel == w.channel {
			w.logger.Debugf("Received outbox notification, draining outbox events")
			w.drain(ctx)
		}
	}

	if conn != nil {
		conn.Close(context.Background())
	}
}

func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.batchSize)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	failed := 0
	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			failed++
			w.logger.Errorf(err, "outbox event %s was not delivered", event.EventID)
			if err := w.repo.ReleaseToPending(ctx, event.ID); err != nil {
				w.logger.Warnf("release to pending failed: %v", err)
			}
			continue
		}
		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	// при неудачах не крутимся в цикле, повтор будет по следующему уведомлению или таймауту
	return failed == 0 && len(events) == w.batchSize, nil
}

// processEvent отправляет событие, повторяя попытку при временных ошибках брокера.
func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	var err error
	for attempt := 0; attempt < sendAttempts; attempt++ {
		err = w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(event.AggregateID, event.Payload))
		if err == nil {
			return nil
		}
		if !isRetryableError(err) {
			return e.Wrap("Permanent Kafka failure", err)
		}
		w.sleep(ctx, w.backoff.Delay(attempt))
	}

	return e.Wrap("Temporary Kafka failure, retries exhausted", err)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"leader not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}
