package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/nacodez/hotel-booking-app/model"
	"github.com/segmentio/kafka-go"
)

// EmailSender delivers a rendered email. The console sender below is the
// default; swapping in an SMTP-backed implementation is a wiring change
// only.
type EmailSender interface {
	Send(template *model.EmailTemplate) error
}

// ConsoleEmailSender logs rendered emails instead of delivering them
type ConsoleEmailSender struct{}

func (ConsoleEmailSender) Send(template *model.EmailTemplate) error {
	log.Printf("EMAIL to=%s subject=%q", template.To, template.Subject)
	log.Printf("body:\n%s", template.Body)
	return nil
}

// NotificationProcessor consumes booking notifications from Kafka and
// renders and sends the matching email through a bounded worker pool.
type NotificationProcessor struct {
	consumer *kafka.Reader
	sender   EmailSender

	// Worker pool for managing goroutines
	workerPool chan chan kafka.Message
	workers    []*notificationWorker

	// Metrics
	processedCount int64
	activeWorkers  int64
}

type notificationWorker struct {
	id         int
	processor  *NotificationProcessor
	jobChannel chan kafka.Message
	workerPool chan chan kafka.Message
	quit       chan bool
}

func NewNotificationProcessor(consumer *kafka.Reader, sender EmailSender, maxWorkers int) *NotificationProcessor {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	processor := &NotificationProcessor{
		consumer:   consumer,
		sender:     sender,
		workerPool: make(chan chan kafka.Message, maxWorkers),
		workers:    make([]*notificationWorker, maxWorkers),
	}

	for i := 0; i < maxWorkers; i++ {
		processor.workers[i] = &notificationWorker{
			id:         i,
			processor:  processor,
			jobChannel: make(chan kafka.Message),
			workerPool: processor.workerPool,
			quit:       make(chan bool),
		}
	}

	return processor
}

// Start begins processing notification messages from Kafka
func (p *NotificationProcessor) Start(ctx context.Context) error {
	log.Printf("Starting notification processor with %d workers...", len(p.workers))

	for _, worker := range p.workers {
		worker.start()
	}

	go p.reportMetrics(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Notification processor shutting down...")
			p.shutdown()
			return ctx.Err()
		default:
			msg, err := p.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					p.shutdown()
					return ctx.Err()
				}
				log.Printf("Error reading message: %v", err)
				continue
			}

			// Dispatch to worker pool (blocks if all workers busy)
			select {
			case jobChannel := <-p.workerPool:
				select {
				case jobChannel <- msg:
					// Successfully dispatched
				case <-ctx.Done():
					p.shutdown()
					return ctx.Err()
				}
			case <-ctx.Done():
				p.shutdown()
				return ctx.Err()
			}
		}
	}
}

// ProcessMessage renders and sends the email for one notification message
func (p *NotificationProcessor) ProcessMessage(msg kafka.Message) error {
	var notification model.NotificationRequest
	if err := json.Unmarshal(msg.Value, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification request: %w", err)
	}

	var template *model.EmailTemplate
	switch notification.Type {
	case model.NotificationBookingConfirmed:
		template = notification.GenerateBookingConfirmationEmail()
	case model.NotificationBookingCancelled:
		template = notification.GenerateBookingCancelledEmail()
	default:
		log.Printf("Unknown notification type: %s", notification.Type)
		return nil
	}

	if err := p.sender.Send(template); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("Sent %s email to %s for booking %s",
		notification.Type, notification.RecipientEmail, notification.BookingData.BookingID)
	return nil
}

func (w *notificationWorker) start() {
	go func() {
		for {
			// Register this worker in the pool
			w.workerPool <- w.jobChannel

			select {
			case job := <-w.jobChannel:
				atomic.AddInt64(&w.processor.activeWorkers, 1)

				if err := w.processor.ProcessMessage(job); err != nil {
					log.Printf("Worker %d error processing notification: %v", w.id, err)
				}

				atomic.AddInt64(&w.processor.processedCount, 1)
				atomic.AddInt64(&w.processor.activeWorkers, -1)

			case <-w.quit:
				log.Printf("Worker %d shutting down", w.id)
				return
			}
		}
	}()
}

func (w *notificationWorker) stop() {
	w.quit <- true
}

// shutdown stops all workers and waits for in-flight sends to finish
func (p *NotificationProcessor) shutdown() {
	log.Println("Shutting down notification workers...")

	for _, worker := range p.workers {
		go worker.stop()
	}

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			log.Println("Shutdown timeout reached, forcing exit")
			return
		case <-ticker.C:
			if atomic.LoadInt64(&p.activeWorkers) == 0 {
				log.Println("All workers finished gracefully")
				return
			}
		}
	}
}

// ProcessedCount returns how many messages this processor has handled
func (p *NotificationProcessor) ProcessedCount() int64 {
	return atomic.LoadInt64(&p.processedCount)
}

// reportMetrics logs processing throughput periodically
func (p *NotificationProcessor) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Printf("Notification metrics: processed=%d active_workers=%d",
				atomic.LoadInt64(&p.processedCount), atomic.LoadInt64(&p.activeWorkers))
		}
	}
}
