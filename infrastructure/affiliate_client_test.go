package infrastructure

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	requested []string
	resp      *Response
	err       error
}

func (f *fakeTransport) Get(ctx context.Context, url string) (*Response, error) {
	f.requested = append(f.requested, url)
	return f.resp, f.err
}

func testWindow() entities.Window {
	start := time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)
	return entities.Window{Start: start, End: start.AddDate(0, 0, 13)}
}

func newTestAffiliateClient(transport HTTPTransport) *AffiliateClient {
	return NewAffiliateClient(
		transport,
		"https://services.rainbet.com/v1/external/affiliates",
		"k3y",
		NewPayloadNormalizer("affiliates", "username", "wagered_amount"),
	)
}

func TestAffiliateClient_FetchWagers(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{resp: &Response{
		StatusCode: 200,
		Body:       []byte(`{"affiliates":[{"username":"alice","wagered_amount":"250"}]}`),
	}}
	client := newTestAffiliateClient(transport)

	entries, err := client.FetchWagers(context.Background(), testWindow())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Username)

	require.Len(t, transport.requested, 1)
	requested, err := url.Parse(transport.requested[0])
	require.NoError(t, err)
	assert.Equal(t, "/v1/external/affiliates", requested.Path)
	assert.Equal(t, "2025-08-11", requested.Query().Get("start_at"))
	assert.Equal(t, "2025-08-24", requested.Query().Get("end_at"))
	assert.Equal(t, "k3y", requested.Query().Get("key"))
}

func TestAffiliateClient_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		transport *fakeTransport
		wantErr   error
	}{
		{
			name:      "transport error",
			transport: &fakeTransport{err: errors.New("connection reset")},
			wantErr:   ErrFetchFailed,
		},
		{
			name:      "non 200",
			transport: &fakeTransport{resp: &Response{StatusCode: 503, Body: []byte(`{}`)}},
			wantErr:   ErrFetchFailed,
		},
		{
			name:      "missing affiliates",
			transport: &fakeTransport{resp: &Response{StatusCode: 200, Body: []byte(`{"message":"rate limited"}`)}},
			wantErr:   ErrMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entries, err := newTestAffiliateClient(tt.transport).FetchWagers(context.Background(), testWindow())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, entries)
		})
	}
}
