// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"

	apperrors "moviecat/cli/internal/errors"
)

// PresentError formats an error for user display with masking.
// Typed errors are shown by their human-friendly message; the wrapped
// transport detail is left to debug logs.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	if msg := apperrors.MessageOf(err); msg != "" {
		return fmt.Sprintf("%s: %s", context, Mask(msg))
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}
