// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"errors"
	"net/http"

	apperrors "gisthub/cli/internal/errors"

	"github.com/google/go-github/v57/github"
)

// classify wraps an API error with a Kind derived from the response status.
// Errors without a response (network, context) are returned unchanged.
func classify(err error, resp *github.Response, action string) error {
	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return apperrors.Wrap(apperrors.PermissionDenied, action+": rate limit exceeded", err)
	}
	var are *github.AbuseRateLimitError
	if errors.As(err, &are) {
		return apperrors.Wrap(apperrors.PermissionDenied, action+": secondary rate limit exceeded", err)
	}
	if resp == nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return apperrors.Wrap(apperrors.Authentication, action+": token rejected", err)
	case http.StatusForbidden:
		return apperrors.Wrap(apperrors.PermissionDenied, action+": access denied", err)
	case http.StatusNotFound:
		return apperrors.Wrap(apperrors.NotFound, action+": not found", err)
	case http.StatusConflict:
		return apperrors.Wrap(apperrors.ResourceExists, action+": conflict", err)
	case http.StatusUnprocessableEntity:
		return apperrors.Wrap(apperrors.InvalidArgument, action+": rejected by GitHub", err)
	}
	return err
}
