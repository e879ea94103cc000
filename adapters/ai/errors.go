package ai

import (
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/elum-utils/cleen/models"
)

const maxErrorBody = 512

func transportError(err error) error {
	return fmt.Errorf("ai: request failed: %w: %w", models.ErrTransport, err)
}

func statusError(resp *resty.Response) error {
	body := resp.String()
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return fmt.Errorf("ai: status %d: %s: %w: %w", resp.StatusCode(), body, models.ErrRateLimited, models.ErrTransport)
	}
	return fmt.Errorf("ai: status %d: %s: %w", resp.StatusCode(), body, models.ErrTransport)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("ai: "+format+": %w", append(args, models.ErrMalformedResponse)...)
}
