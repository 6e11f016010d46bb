package services

import (
	"errors"

	"cipherhaven/internal/models"
)

const (
	MsgPasswordBreached       = "Your password has been found in a data breach. Please use a different password."
	MsgSignUpFallback         = "An error occurred during sign-up."
	MsgSignUpSuccess          = "Sign up successful!"
	MsgVerificationFailed     = "Verification failed. Please try again."
	MsgAdditionalVerification = "Additional verification is required to finish sign-up."
)

// ProviderNotifications maps each provider error to one user-facing notification.
func ProviderNotifications(err error, fallback string) []models.Notification {
	var perr *models.ProviderErrors
	if !errors.As(err, &perr) || len(perr.Errors) == 0 {
		return []models.Notification{{Level: models.NotifyError, Message: fallback}}
	}
	out := make([]models.Notification, 0, len(perr.Errors))
	for _, pe := range perr.Errors {
		out = append(out, models.Notification{Level: models.NotifyError, Message: providerMessage(pe, fallback)})
	}
	return out
}

func providerMessage(pe models.ProviderError, fallback string) string {
	switch {
	case pe.Code == models.ProviderCodePasswordBreached:
		return MsgPasswordBreached
	case pe.LongMessage != "":
		return pe.LongMessage
	case pe.Message != "":
		return pe.Message
	}
	return fallback
}
