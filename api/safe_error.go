package api

import (
	"expenses/config"
)

// SafeErrorMessage keeps decode detail out of responses in release mode
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}
