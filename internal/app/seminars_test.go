package app

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
	"github.com/ozgurarslan/seminar-booking-system/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetSeminarHandler(t *testing.T) {
	seminarRepo := new(mocks.MockSeminarRepo)
	app := newTestApplication(func(a *application) {
		a.seminarRepo = seminarRepo
	})

	seminar := openSeminar()
	seminarRepo.On("GetById", mock.Anything, int64(7)).Return(seminar, nil).Once()
	seminarRepo.On("GetById", mock.Anything, int64(99)).Return(nil, domain.ErrRecordNotFound).Once()

	w, r := newRequest(http.MethodGet, "/seminars/7", nil, map[string]string{"seminarID": "7"})
	app.GetSeminarHandler(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp SeminarResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, int64(7), resp.Id)
	assert.Equal(t, "Negotiation Basics", resp.Title)
	assert.Equal(t, 5, resp.SeatsLeft)
	assert.Equal(t, "active", resp.Status)

	w, r = newRequest(http.MethodGet, "/seminars/99", nil, map[string]string{"seminarID": "99"})
	app.GetSeminarHandler(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, r = newRequest(http.MethodGet, "/seminars/0", nil, map[string]string{"seminarID": "0"})
	app.GetSeminarHandler(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToSeminarResponseClampsSeatsLeft(t *testing.T) {
	seminar := openSeminar()
	seminar.CurrentParticipants = seminar.MaxParticipants + 2

	resp := toSeminarResponse(seminar)

	assert.Equal(t, 0, resp.SeatsLeft)
}
