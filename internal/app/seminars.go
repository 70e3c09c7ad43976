package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ozgurarslan/seminar-booking-system/internal/domain"
	"github.com/shopspring/decimal"
)

type SeminarResponse struct {
	Id        int64           `json:"id"`
	Title     string          `json:"title"`
	Speaker   string          `json:"speaker"`
	Location  string          `json:"location"`
	Date      time.Time       `json:"date"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	SeatsLeft int             `json:"seatsLeft"`
	Status    string          `json:"status"`
}

func (app *application) GetSeminarHandler(w http.ResponseWriter, r *http.Request) {
	seminarID, err := seminarIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
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

	resp := toSeminarResponse(seminar)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toSeminarResponse(seminar *domain.Seminar) SeminarResponse {
	seatsLeft := seminar.MaxParticipants - seminar.CurrentParticipants
	if seatsLeft < 0 {
		seatsLeft = 0
	}

	return SeminarResponse{
		Id:        seminar.ID,
		Title:     seminar.Title,
		Speaker:   seminar.Speaker,
		Location:  seminar.Location,
		Date:      seminar.StartsAt,
		Price:     seminar.Price,
		Currency:  seminar.Currency,
		SeatsLeft: seatsLeft,
		Status:    string(seminar.Status),
	}
}

func seminarIDParam(r *http.Request) (int64, error) {
	seminarID, err := strconv.ParseInt(chi.URLParam(r, "seminarID"), 10, 64)
	if err != nil || seminarID < 1 {
		return 0, fmt.Errorf("seminar ID must be a positive integer")
	}

	return seminarID, nil
}
