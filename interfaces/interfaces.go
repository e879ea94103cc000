package interfaces

import (
	"context"

	"github.com/elum-utils/cleen/models"
)

// Classifier sends one prompt to a remote text-classification service and returns its raw text reply.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, prompt string) (string, error)
}

// PageAdapter scrapes items from a page and applies decisions back to it.
type PageAdapter interface {
	CollectItems(ctx context.Context) ([]models.Item, error)
	ApplyDecision(ctx context.Context, decision models.Decision) error
}

// Logger is an optional structured logger.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}
