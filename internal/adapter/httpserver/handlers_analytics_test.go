package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MF1DEV/vantora/internal/domain"
)

func TestTrackEventEndpoint(t *testing.T) {
	var tracked []domain.AnalyticsEvent
	service := &mockAppService{
		trackEventFn: func(event domain.AnalyticsEvent) bool {
			tracked = append(tracked, event)
			return true
		},
	}
	srv := newTestServer(t, service)

	track := func(t *testing.T, body string, headers map[string]string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/api/analytics/track", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)
		return rec
	}

	profileID := uuid.New()
	linkID := uuid.New()

	t.Run("click with link and requester metadata", func(t *testing.T) {
		body := `{"user_id":"` + profileID.String() + `","link_id":"` + linkID.String() + `","event_type":"click"}`
		rec := track(t, body, map[string]string{
			"X-Forwarded-For": "203.0.113.7, 10.0.0.1",
			"User-Agent":      "test-agent",
			"Referer":         "https://elsewhere.example",
		})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":true`)

		require.Len(t, tracked, 1)
		event := tracked[0]
		assert.Equal(t, profileID, event.ProfileID)
		require.NotNil(t, event.LinkID)
		assert.Equal(t, linkID, *event.LinkID)
		assert.Equal(t, domain.EventClick, event.EventType)
		assert.Equal(t, "203.0.113.7", event.IP, "first forwarded-for entry wins")
		assert.Equal(t, "test-agent", event.UserAgent)
		assert.Equal(t, "https://elsewhere.example", event.Referrer)
	})

	t.Run("view without link stores a nil link reference", func(t *testing.T) {
		tracked = nil
		body := `{"user_id":"` + profileID.String() + `","event_type":"view"}`
		rec := track(t, body, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, tracked, 1)
		assert.Nil(t, tracked[0].LinkID)
	})

	t.Run("unknown event type is a 400", func(t *testing.T) {
		body := `{"user_id":"` + profileID.String() + `","event_type":"hover"}`
		rec := track(t, body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing user_id is a 400", func(t *testing.T) {
		rec := track(t, `{"event_type":"view"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejected enqueue is a 500", func(t *testing.T) {
		service.trackEventFn = func(domain.AnalyticsEvent) bool { return false }
		body := `{"user_id":"` + profileID.String() + `","event_type":"view"}`
		rec := track(t, body, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
