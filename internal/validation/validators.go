package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/brainindex/brainindex-api/internal/models"
)

// MaxBrandNameLength caps brand name input.
const MaxBrandNameLength = 200

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	if err := Validate.RegisterValidation("subscription_plan", validateSubscriptionPlan); err != nil {
		panic(fmt.Sprintf("failed to register subscription_plan validator: %v", err))
	}
	if err := Validate.RegisterValidation("subscription_status", validateSubscriptionStatus); err != nil {
		panic(fmt.Sprintf("failed to register subscription_status validator: %v", err))
	}
}

// validateSubscriptionPlan validates that a string is a valid SubscriptionPlan enum value
func validateSubscriptionPlan(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	switch models.SubscriptionPlan(value) {
	case models.PlanFree, models.PlanPro, models.PlanEnterprise:
		return true
	default:
		return false
	}
}

// validateSubscriptionStatus validates that a string is a valid SubscriptionStatus enum value
func validateSubscriptionStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	switch models.SubscriptionStatus(value) {
	case models.SubscriptionActive, models.SubscriptionCancelled, models.SubscriptionExpired:
		return true
	default:
		return false
	}
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateBrandName checks that a brand name is usable as analysis input.
func ValidateBrandName(value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fmt.Errorf("brand name is required")
	}
	if len(trimmed) > MaxBrandNameLength {
		return fmt.Errorf("brand name exceeds %d characters", MaxBrandNameLength)
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return fmt.Errorf("brand name contains control characters")
		}
	}
	return nil
}

// ValidateSubscriptionPlan validates a SubscriptionPlan string value
func ValidateSubscriptionPlan(value string) error {
	plan := models.SubscriptionPlan(value)
	switch plan {
	case models.PlanFree, models.PlanPro, models.PlanEnterprise:
		return nil
	default:
		return fmt.Errorf("invalid plan: %s (must be 'free', 'pro', or 'enterprise')", value)
	}
}

// ValidateSubscriptionStatus validates a SubscriptionStatus string value
func ValidateSubscriptionStatus(value string) error {
	status := models.SubscriptionStatus(value)
	switch status {
	case models.SubscriptionActive, models.SubscriptionCancelled, models.SubscriptionExpired:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'active', 'cancelled', or 'expired')", value)
	}
}
