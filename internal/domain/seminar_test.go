package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyParticipantDelta(t *testing.T) {
	tests := []struct {
		name       string
		seminar    Seminar
		delta      int
		wantCount  int
		wantStatus SeminarStatus
	}{
		{
			name:       "increment below capacity keeps seminar active",
			seminar:    Seminar{MaxParticipants: 15, CurrentParticipants: 3, Status: SeminarStatusActive},
			delta:      1,
			wantCount:  4,
			wantStatus: SeminarStatusActive,
		},
		{
			name:       "reaching capacity flips status to sold out",
			seminar:    Seminar{MaxParticipants: 15, CurrentParticipants: 14, Status: SeminarStatusActive},
			delta:      1,
			wantCount:  15,
			wantStatus: SeminarStatusSoldOut,
		},
		{
			name:       "refund on a sold out seminar reopens it",
			seminar:    Seminar{MaxParticipants: 15, CurrentParticipants: 15, Status: SeminarStatusSoldOut},
			delta:      -1,
			wantCount:  14,
			wantStatus: SeminarStatusActive,
		},
		{
			name:       "completion on a full seminar is clamped at capacity",
			seminar:    Seminar{MaxParticipants: 15, CurrentParticipants: 15, Status: SeminarStatusSoldOut},
			delta:      1,
			wantCount:  15,
			wantStatus: SeminarStatusSoldOut,
		},
		{
			name:       "count is clamped at zero",
			seminar:    Seminar{MaxParticipants: 10, CurrentParticipants: 0, Status: SeminarStatusActive},
			delta:      -1,
			wantCount:  0,
			wantStatus: SeminarStatusActive,
		},
		{
			name:       "cancelled seminars never change status",
			seminar:    Seminar{MaxParticipants: 10, CurrentParticipants: 9, Status: SeminarStatusCancelled},
			delta:      1,
			wantCount:  10,
			wantStatus: SeminarStatusCancelled,
		},
		{
			name:       "draft seminars never change status",
			seminar:    Seminar{MaxParticipants: 5, CurrentParticipants: 4, Status: SeminarStatusDraft},
			delta:      1,
			wantCount:  5,
			wantStatus: SeminarStatusDraft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, status := tt.seminar.ApplyParticipantDelta(tt.delta)

			assert.Equal(t, tt.wantCount, count)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestHasOpenSeats(t *testing.T) {
	tests := []struct {
		name    string
		seminar Seminar
		want    bool
	}{
		{"active with room", Seminar{MaxParticipants: 10, CurrentParticipants: 9, Status: SeminarStatusActive}, true},
		{"active at capacity", Seminar{MaxParticipants: 10, CurrentParticipants: 10, Status: SeminarStatusActive}, false},
		{"sold out", Seminar{MaxParticipants: 10, CurrentParticipants: 10, Status: SeminarStatusSoldOut}, false},
		{"draft with room", Seminar{MaxParticipants: 10, CurrentParticipants: 0, Status: SeminarStatusDraft}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.seminar.HasOpenSeats())
		})
	}
}
