package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core/alert"
)

func TestAlerts_send(t *testing.T) {
	app := setup(t)

	t.Run("student: forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/alerts", getToken(t, student))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
		assert.Empty(t, app.mailer.Sent())
	})

	t.Run("invalid filter", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/alerts?year=x", getToken(t, teacher))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, app.mailer.Sent())
	})

	t.Run("teacher: ok", func(t *testing.T) {
		app.mailer.Reset()
		req, rec := newAuthRequest(http.MethodPost, "/v1/alerts", getToken(t, teacher))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusAccepted, rec.Code)

		var res struct {
			Sent   int                  `json:"sent"`
			Alerts []alert.SubjectAlert `json:"alerts"`
		}
		unmarchall(t, rec, &res)
		assert.Equal(t, 1, res.Sent)
		require.Len(t, res.Alerts, 1)
		assert.Equal(t, "math", res.Alerts[0].SubjectID)
		require.Len(t, res.Alerts[0].Students, 1)
		assert.Equal(t, "s1", res.Alerts[0].Students[0].StudentID)

		sent := app.mailer.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, teacher.Email, sent[0].To[0].Address)
		require.Len(t, sent[0].Attachments, 1)
		assert.Equal(t, "math_at_risk.csv", sent[0].Attachments[0].Filename)
	})

	t.Run("nothing at risk", func(t *testing.T) {
		app.mailer.Reset()
		req, rec := newAuthRequest(http.MethodPost, "/v1/alerts?student_id=s2", getToken(t, admin))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusAccepted, wantData: []byte(`{"sent":0,"alerts":[]}`)}, rec)
		assert.Empty(t, app.mailer.Sent())
	})
}
