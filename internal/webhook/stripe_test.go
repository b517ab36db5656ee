package webhook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

const (
	testSecret  = "whsec_test_secret"
	testPayload = `{"id":"evt_123","object":"event","type":"payment_intent.succeeded","api_version":"2020-08-27","data":{"object":{}}}`
)

func sign(t *testing.T, payload, secret string, ts time.Time) string {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: ts,
	})
	return signed.Header
}

func TestVerify(t *testing.T) {
	v := &Verifier{Secret: testSecret}

	event, err := v.Verify([]byte(testPayload), sign(t, testPayload, testSecret, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "evt_123", event.ID)
	assert.EqualValues(t, "payment_intent.succeeded", event.Type)
}

func TestVerify_Rejects(t *testing.T) {
	v := &Verifier{Secret: testSecret}

	_, err := v.Verify([]byte(testPayload), "")
	require.ErrorIs(t, err, ErrBadSignature)

	_, err = v.Verify([]byte(testPayload), sign(t, testPayload, "whsec_other", time.Now()))
	require.ErrorIs(t, err, ErrBadSignature)

	_, err = v.Verify([]byte(`{"id":"evt_tampered"}`), sign(t, testPayload, testSecret, time.Now()))
	require.ErrorIs(t, err, ErrBadSignature)

	_, err = v.Verify([]byte(testPayload), sign(t, testPayload, testSecret, time.Now().Add(-time.Hour)))
	require.ErrorIs(t, err, ErrBadSignature)

	_, err = (&Verifier{}).Verify([]byte(testPayload), "t=1,v1=abc")
	require.ErrorIs(t, err, ErrNotConfigured)
}
