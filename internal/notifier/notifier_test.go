package notifier

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProsperCoded/nourish-box-sub000/internal/mailer"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []mailer.Message
	err      error
}

func (s *fakeSender) Send(msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return s.err
}

func (s *fakeSender) sent() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mailer.Message(nil), s.messages...)
}

func testEvent() OrderConfirmedEvent {
	return OrderConfirmedEvent{
		TransactionID: uuid.New(),
		Reference:     "NBX-1",
		CustomerName:  "Ada Obi",
		CustomerEmail: "ada@example.com",
		AdminEmails:   []string{"ops@nourishbox.test", "admin@nourishbox.test"},
		Amount:        12000,
		RecipeNames:   []string{"Jollof Rice Kit"},
		OrdersCreated: 1,
	}
}

func TestWorkerSendsCustomerAndAdminEmails(t *testing.T) {
	sender := &fakeSender{}
	worker := NewWorker(sender, 4)
	worker.Start()

	worker.Publish(testEvent())
	worker.Stop()

	messages := sender.sent()
	require.Len(t, messages, 2)

	assert.Equal(t, []string{"ada@example.com"}, messages[0].To)
	assert.Contains(t, messages[0].HTML, "Jollof Rice Kit")
	assert.Contains(t, messages[0].HTML, "NBX-1")

	assert.Equal(t, []string{"ops@nourishbox.test", "admin@nourishbox.test"}, messages[1].To)
	assert.Contains(t, messages[1].HTML, "Ada Obi")
}

func TestWorkerSkipsAdminAlertWithoutRecipients(t *testing.T) {
	sender := &fakeSender{}
	worker := NewWorker(sender, 4)
	worker.Start()

	event := testEvent()
	event.AdminEmails = nil
	worker.Publish(event)
	worker.Stop()

	require.Len(t, sender.sent(), 1)
}

func TestWorkerSwallowsSendFailures(t *testing.T) {
	sender := &fakeSender{err: errors.New("provider down")}
	worker := NewWorker(sender, 4)
	worker.Start()

	worker.Publish(testEvent())
	worker.Publish(testEvent())
	worker.Stop()

	// Both events still fully processed; failures only logged.
	assert.Len(t, sender.sent(), 4)
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	sender := &fakeSender{}
	worker := NewWorker(sender, 1)
	// Not started: the buffer fills and further publishes must not block.

	worker.Publish(testEvent())
	done := make(chan struct{})
	go func() {
		worker.Publish(testEvent())
		close(done)
	}()
	<-done

	worker.Start()
	worker.Stop()
	assert.Len(t, sender.sent(), 2, "one buffered event, both of its emails sent")
}
