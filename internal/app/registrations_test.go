package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
	"github.com/ozgurarslan/seminar-booking-system/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RegistrationHandlerTestSuite struct {
	suite.Suite
	app             *application
	paymentRepo     *mocks.MockPaymentRepo
	seminarRepo     *mocks.MockSeminarRepo
	paymentProvider *mocks.MockPaymentProvider
}

func (s *RegistrationHandlerTestSuite) SetupTest() {
	s.paymentRepo = new(mocks.MockPaymentRepo)
	s.seminarRepo = new(mocks.MockSeminarRepo)
	s.paymentProvider = new(mocks.MockPaymentProvider)

	s.app = newTestApplication(func(a *application) {
		a.paymentRepo = s.paymentRepo
		a.seminarRepo = s.seminarRepo
		a.paymentProvider = s.paymentProvider
	})
}

func TestRegistrationHandlerSuite(t *testing.T) {
	suite.Run(t, new(RegistrationHandlerTestSuite))
}

func openSeminar() *domain.Seminar {
	return &domain.Seminar{
		ID:                  7,
		Title:               "Negotiation Basics",
		Speaker:             "Dr. Aylin Kaya",
		Location:            "Istanbul",
		StartsAt:            time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC),
		Price:               decimal.NewFromInt(480),
		Currency:            "EUR",
		MaxParticipants:     15,
		CurrentParticipants: 10,
		Status:              domain.SeminarStatusActive,
	}
}

func (s *RegistrationHandlerTestSuite) post(seminarID string, body []byte) *httptest.ResponseRecorder {
	w, r := newRequest(http.MethodPost, "/seminars/"+seminarID+"/registrations", body, map[string]string{"seminarID": seminarID})
	s.app.CreateRegistrationHandler(w, r)
	return w
}

func (s *RegistrationHandlerTestSuite) TestCreatesPendingPaymentAndCheckout() {
	seminar := openSeminar()
	session := &domain.CheckoutSession{ID: "cs_123", URL: "https://pay.example.com/cs_123"}

	s.seminarRepo.On("GetById", mock.Anything, int64(7)).Return(seminar, nil).Once()
	s.paymentProvider.On("CreateCheckoutSession", mock.Anything, seminar, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.SeminarID == 7 &&
			p.Status == domain.PaymentStatusPending &&
			p.Amount.Equal(decimal.NewFromInt(480)) &&
			p.Currency == "EUR" &&
			p.ParticipantEmail == "elif@example.com"
	})).Return(session, nil).Once()
	s.paymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.ID == "cs_123"
	})).Return(nil).Once()

	body := []byte(`{"name":"Elif Demir","email":"elif@example.com","phone":"+90 532 111 22 33"}`)
	w := s.post("7", body)

	s.Equal(http.StatusCreated, w.Code)

	var resp RegistrationResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
	s.Equal("cs_123", resp.PaymentId)
	s.Equal("https://pay.example.com/cs_123", resp.RedirectUrl)

	s.paymentRepo.AssertExpectations(s.T())
	s.paymentProvider.AssertExpectations(s.T())
}

func (s *RegistrationHandlerTestSuite) TestRejectsInvalidSeminarID() {
	w := s.post("banana", []byte(`{"name":"Elif Demir","email":"elif@example.com"}`))

	s.Equal(http.StatusBadRequest, w.Code)
	s.seminarRepo.AssertNotCalled(s.T(), "GetById", mock.Anything, mock.Anything)
}

func (s *RegistrationHandlerTestSuite) TestRejectsMalformedBody() {
	w := s.post("7", []byte(`{"name":`))

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RegistrationHandlerTestSuite) TestValidatesRequestFields() {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"elif@example.com"}`},
		{"name too short", `{"name":"E","email":"elif@example.com"}`},
		{"missing email", `{"name":"Elif Demir"}`},
		{"invalid email", `{"name":"Elif Demir","email":"not-an-email"}`},
		{"invalid phone", `{"name":"Elif Demir","email":"elif@example.com","phone":"abc"}`},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.post("7", []byte(tt.body))

			s.Equal(http.StatusUnprocessableEntity, w.Code)
		})
	}

	s.seminarRepo.AssertNotCalled(s.T(), "GetById", mock.Anything, mock.Anything)
}

func (s *RegistrationHandlerTestSuite) TestUnknownSeminarReturnsNotFound() {
	s.seminarRepo.On("GetById", mock.Anything, int64(99)).Return(nil, domain.ErrRecordNotFound).Once()

	w := s.post("99", []byte(`{"name":"Elif Demir","email":"elif@example.com"}`))

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RegistrationHandlerTestSuite) TestSoldOutSeminarConflicts() {
	seminar := openSeminar()
	seminar.CurrentParticipants = 15
	seminar.Status = domain.SeminarStatusSoldOut

	s.seminarRepo.On("GetById", mock.Anything, int64(7)).Return(seminar, nil).Once()

	w := s.post("7", []byte(`{"name":"Elif Demir","email":"elif@example.com"}`))

	s.Equal(http.StatusConflict, w.Code)
	s.paymentProvider.AssertNotCalled(s.T(), "CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything)
}

func (s *RegistrationHandlerTestSuite) TestDraftSeminarConflicts() {
	seminar := openSeminar()
	seminar.Status = domain.SeminarStatusDraft

	s.seminarRepo.On("GetById", mock.Anything, int64(7)).Return(seminar, nil).Once()

	w := s.post("7", []byte(`{"name":"Elif Demir","email":"elif@example.com"}`))

	s.Equal(http.StatusConflict, w.Code)
}

func (s *RegistrationHandlerTestSuite) TestCheckoutFailureReturnsServerError() {
	seminar := openSeminar()

	s.seminarRepo.On("GetById", mock.Anything, int64(7)).Return(seminar, nil).Once()
	s.paymentProvider.On("CreateCheckoutSession", mock.Anything, seminar, mock.Anything).
		Return(nil, errors.New("provider unavailable")).Once()

	w := s.post("7", []byte(`{"name":"Elif Demir","email":"elif@example.com"}`))

	s.Equal(http.StatusInternalServerError, w.Code)
	s.paymentRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *RegistrationHandlerTestSuite) TestPaymentPersistFailureReturnsServerError() {
	seminar := openSeminar()
	session := &domain.CheckoutSession{ID: "cs_123", URL: "https://pay.example.com/cs_123"}

	s.seminarRepo.On("GetById", mock.Anything, int64(7)).Return(seminar, nil).Once()
	s.paymentProvider.On("CreateCheckoutSession", mock.Anything, seminar, mock.Anything).Return(session, nil).Once()
	s.paymentRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()

	w := s.post("7", []byte(`{"name":"Elif Demir","email":"elif@example.com"}`))

	s.Equal(http.StatusInternalServerError, w.Code)
}
