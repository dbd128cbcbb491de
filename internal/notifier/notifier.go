package notifier

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ProsperCoded/nourish-box-sub000/internal/mailer"
)

// EmailSender is what the worker needs from the mailer.
type EmailSender interface {
	Send(msg mailer.Message) error
}

// OrderConfirmedEvent carries everything the notification emails need, so the
// worker never touches the database or the request that produced it.
type OrderConfirmedEvent struct {
	TransactionID  uuid.UUID
	Reference      string
	CustomerName   string
	CustomerEmail  string
	AdminEmails    []string
	Amount         int
	RecipeNames    []string
	OrdersCreated int
	OrdersFailed  int
}

// Worker consumes order-confirmed events off the request path. Email failures
// are logged and swallowed; they never reach the payment-verification
// response.
type Worker struct {
	sender EmailSender
	events chan OrderConfirmedEvent
	wg     sync.WaitGroup
}

func NewWorker(sender EmailSender, buffer int) *Worker {
	if buffer <= 0 {
		buffer = 64
	}
	return &Worker{
		sender: sender,
		events: make(chan OrderConfirmedEvent, buffer),
	}
}

func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for event := range w.events {
			w.handle(event)
		}
	}()
}

// Stop drains the queue and waits for in-flight sends to finish.
func (w *Worker) Stop() {
	close(w.events)
	w.wg.Wait()
}

// Publish enqueues an event without blocking. If the queue is full the event
// is dropped with a log line; notifications are best-effort.
func (w *Worker) Publish(event OrderConfirmedEvent) {
	select {
	case w.events <- event:
	default:
		slog.Error("notification queue full, dropping event",
			"transaction_id", event.TransactionID,
			"reference", event.Reference)
	}
}

func (w *Worker) handle(event OrderConfirmedEvent) {
	confirmation := mailer.PaymentConfirmation(event.CustomerName, event.Reference, event.Amount, event.RecipeNames)
	confirmation.To = []string{event.CustomerEmail}
	if err := w.sender.Send(confirmation); err != nil {
		slog.Error("failed to send payment confirmation email",
			"transaction_id", event.TransactionID,
			"to", event.CustomerEmail,
			"error", err)
	}

	if len(event.AdminEmails) == 0 {
		return
	}

	alert := mailer.AdminOrderAlert(event.CustomerName, event.CustomerEmail, event.Reference, event.Amount, event.OrdersCreated, event.OrdersFailed)
	alert.To = event.AdminEmails
	if err := w.sender.Send(alert); err != nil {
		slog.Error("failed to send admin order alert",
			"transaction_id", event.TransactionID,
			"error", err)
	}
}
