// Copyright (c) 2026 NovelHub. All rights reserved.

package auth

import "time"

// # Authentication Constraints

const (
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (15 minutes) for security.
	ResetTokenTTL = 15 * time.Minute

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 32
)
