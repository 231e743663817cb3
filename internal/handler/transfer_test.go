package handler

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func fieldNames(errs []FieldError) []string {
	names := make([]string, 0, len(errs))
	for _, e := range errs {
		names = append(names, e.Field)
	}
	return names
}

func TestToCardRequestValidate(t *testing.T) {
	validID := uuid.NewString()

	tests := []struct {
		name       string
		req        toCardRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  toCardRequest{AccountID: validID, CardNumber: "4400 1234 5678 9010", Amount: 1000},
		},
		{
			name:       "missing everything",
			req:        toCardRequest{},
			wantFields: []string{"accountId", "cardNumber", "amount"},
		},
		{
			name:       "malformed account id",
			req:        toCardRequest{AccountID: "not-a-uuid", CardNumber: "4400", Amount: 1000},
			wantFields: []string{"accountId"},
		},
		{
			name:       "zero amount",
			req:        toCardRequest{AccountID: validID, CardNumber: "4400", Amount: 0},
			wantFields: []string{"amount"},
		},
		{
			name:       "negative amount",
			req:        toCardRequest{AccountID: validID, CardNumber: "4400", Amount: -5},
			wantFields: []string{"amount"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.req.Validate()
			assert.ElementsMatch(t, tt.wantFields, fieldNames(errs))
		})
	}
}

func TestByPhoneRequestValidate(t *testing.T) {
	validID := uuid.NewString()

	tests := []struct {
		name       string
		req        byPhoneRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  byPhoneRequest{AccountID: validID, PhoneNumber: "87019876543", Amount: 1000},
		},
		{
			name:       "missing phone",
			req:        byPhoneRequest{AccountID: validID, Amount: 1000},
			wantFields: []string{"phoneNumber"},
		},
		{
			name:       "zero amount",
			req:        byPhoneRequest{AccountID: validID, PhoneNumber: "87019876543", Amount: 0},
			wantFields: []string{"amount"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.req.Validate()
			assert.ElementsMatch(t, tt.wantFields, fieldNames(errs))
		})
	}
}
