package mailer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsToProvider(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"id": "msg_1"}`)
	}))
	defer server.Close()

	m := NewWithBaseURL("re_test_key", "orders@nourishbox.test", server.URL)
	err := m.Send(Message{
		To:      []string{"ada@example.com"},
		Subject: "Your Nourish Box order is confirmed",
		HTML:    "<p>hello</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test_key", gotAuth)
	assert.Equal(t, "orders@nourishbox.test", gotBody["from"])
	assert.Equal(t, []interface{}{"ada@example.com"}, gotBody["to"])
}

func TestSendProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message": "invalid recipient"}`)
	}))
	defer server.Close()

	m := NewWithBaseURL("re_test_key", "orders@nourishbox.test", server.URL)
	err := m.Send(Message{To: []string{"not-an-email"}, Subject: "x", HTML: "<p>x</p>"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestMockModeSkipsProvider(t *testing.T) {
	t.Setenv("EMAIL_MOCK_MODE", "true")
	t.Setenv("EMAIL_API_KEY", "")
	t.Setenv("EMAIL_SENDER", "")

	m := New()
	err := m.Send(Message{To: []string{"ada@example.com"}, Subject: "x", HTML: "<p>x</p>"})
	assert.NoError(t, err)
}

func TestPaymentConfirmationMessage(t *testing.T) {
	msg := PaymentConfirmation("Ada Obi", "NBX-1", 12000, []string{"Jollof Rice Kit", "Egusi Soup Kit"})
	assert.Equal(t, "Your Nourish Box order is confirmed", msg.Subject)
	assert.Contains(t, msg.HTML, "Ada Obi")
	assert.Contains(t, msg.HTML, "NBX-1")
	assert.Contains(t, msg.HTML, "120.00")
	assert.Contains(t, msg.HTML, "<li>Jollof Rice Kit</li>")
	assert.Contains(t, msg.HTML, "<li>Egusi Soup Kit</li>")
}
