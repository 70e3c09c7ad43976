package app

import (
	"errors"
	"net/http"

	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
)

type CreateRegistrationRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,phone"`
}

type RegistrationResponse struct {
	PaymentId   string `json:"paymentId"`
	RedirectUrl string `json:"redirectUrl"`
}

// CreateRegistrationHandler opens a checkout for a seminar seat. The
// payment starts out pending; everything after the participant pays is
// driven by provider webhooks.
func (app *application) CreateRegistrationHandler(w http.ResponseWriter, r *http.Request) {
	seminarID, err := seminarIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req CreateRegistrationRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.validator.Struct(req); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	seminar, err := app.seminarRepo.GetById(r.Context(), seminarID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	if !seminar.HasOpenSeats() {
		app.conflictResponse(w, r, domain.ErrSeminarNotBookable)
		return
	}

	payment := &domain.Payment{
		SeminarID:        seminar.ID,
		ParticipantName:  req.Name,
		ParticipantEmail: req.Email,
		ParticipantPhone: req.Phone,
		Amount:           seminar.Price,
		Currency:         seminar.Currency,
		Status:           domain.PaymentStatusPending,
	}

	checkoutSession, err := app.paymentProvider.CreateCheckoutSession(r.Context(), seminar, payment)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	payment.ID = checkoutSession.ID

	if err := app.paymentRepo.Create(r.Context(), payment); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := RegistrationResponse{
		PaymentId:   payment.ID,
		RedirectUrl: checkoutSession.URL,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
