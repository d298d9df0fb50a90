// Package mutation orchestrates label changes: resolve, write with audit in one
// transaction, then notify subscribers after commit.
package mutation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/thenoetrevino/relabel/internal/command"
	"github.com/thenoetrevino/relabel/internal/events"
	"github.com/thenoetrevino/relabel/internal/metrics"
	"github.com/thenoetrevino/relabel/internal/models"
	"github.com/thenoetrevino/relabel/internal/services/history"
	"github.com/thenoetrevino/relabel/internal/services/label"
)

// ErrEmptyCommand is returned for blank command text
var ErrEmptyCommand = fmt.Errorf("%w: command is required", models.ErrInvalidArgument)

// ErrMissingSourceText is returned for a chatbot edit that carries no command text
var ErrMissingSourceText = fmt.Errorf("%w: sourceText is required for chatbot changes", models.ErrInvalidArgument)

// ResponseType classifies a command response for the chat interface
type ResponseType string

const (
	ResponseSuccess ResponseType = "success"
	ResponseError   ResponseType = "error"
	ResponseList    ResponseType = "list"
	ResponseHelp    ResponseType = "help"
)

// EditRequest encapsulates a direct key/value change
type EditRequest struct {
	Key        string
	Value      string
	Actor      string
	ChangeType models.ChangeType // defaults to manual
	SourceText *string           // only kept for command-driven changes
}

// EditResult is the outcome of a committed edit
type EditResult struct {
	Label         *models.Label
	PreviousValue string
	Entry         *models.HistoryEntry
}

// CommandResult is the structured response to a free-text command.
// A command that was not understood or did not resolve is still a result, not an error.
type CommandResult struct {
	Type        ResponseType
	Message     string
	Label       *models.Label
	Labels      []*models.Label
	Suggestions []string
	Entry       *models.HistoryEntry
}

// Service applies label mutations
type Service struct {
	store     *label.Store
	ledger    *history.Ledger
	publisher events.Publisher
}

// NewService creates a new mutation service. publisher may be nil, in which
// case committed changes are not broadcast.
func NewService(store *label.Store, ledger *history.Ledger, publisher events.Publisher) *Service {
	return &Service{
		store:     store,
		ledger:    ledger,
		publisher: publisher,
	}
}

// ApplyDirectEdit sets req.Key to req.Value. The key must match exactly.
func (s *Service) ApplyDirectEdit(ctx context.Context, req EditRequest) (*EditResult, error) {
	if req.ChangeType == "" {
		req.ChangeType = models.ChangeManual
	}
	if !req.ChangeType.Valid() {
		return nil, fmt.Errorf("%w: change type %q", models.ErrInvalidArgument, req.ChangeType)
	}
	if req.ChangeType == models.ChangeCommand && (req.SourceText == nil || strings.TrimSpace(*req.SourceText) == "") {
		return nil, ErrMissingSourceText
	}

	start := time.Now()
	result, err := s.apply(ctx, req)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.MutationsTotal.WithLabelValues(string(req.ChangeType), outcome).Inc()
	metrics.MutationDuration.WithLabelValues(string(req.ChangeType)).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}

	s.publishChange(result)
	return result, nil
}

// apply performs the locked write and records history in the same transaction
func (s *Service) apply(ctx context.Context, req EditRequest) (*EditResult, error) {
	var entry *models.HistoryEntry

	written, err := s.store.Write(ctx, label.WriteRequest{
		Key:   req.Key,
		Value: req.Value,
		Actor: req.Actor,
	}, func(ctx context.Context, tx *sql.Tx, w *label.WriteResult) error {
		var err error
		entry, err = s.ledger.Record(ctx, tx, &models.HistoryEntry{
			LabelID:    w.Label.ID,
			LabelKey:   w.Label.Key,
			OldValue:   w.PreviousValue,
			NewValue:   w.Label.Value,
			ChangedBy:  req.Actor,
			ChangeType: req.ChangeType,
			SourceText: req.SourceText,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return &EditResult{
		Label:         written.Label,
		PreviousValue: written.PreviousValue,
		Entry:         entry,
	}, nil
}

// publishChange notifies subscribers. Failures never affect the committed write.
func (s *Service) publishChange(result *EditResult) {
	if s.publisher == nil {
		return
	}

	event := events.Event{
		Type:       events.EventLabelUpdated,
		Key:        result.Label.Key,
		Page:       result.Label.Page,
		OldValue:   result.PreviousValue,
		NewValue:   result.Label.Value,
		ChangedBy:  result.Entry.ChangedBy,
		ChangeType: string(result.Entry.ChangeType),
		Timestamp:  result.Entry.CreatedAt,
	}

	if err := s.publisher.Publish(event); err != nil {
		metrics.NotifyFailures.Inc()
		slog.Warn("failed to publish label change",
			"key", event.Key,
			"error", err)
	}
}

// ApplyCommand interprets text and carries out the resulting intent on behalf of actor
func (s *Service) ApplyCommand(ctx context.Context, text, actor string) (*CommandResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyCommand
	}

	intent := command.Interpret(text)
	metrics.CommandsTotal.WithLabelValues(string(intent.Kind)).Inc()
	slog.Debug("command interpreted", "kind", intent.Kind, "target", intent.TargetKey)

	switch intent.Kind {
	case command.KindChange:
		return s.applyChange(ctx, intent, actor)

	case command.KindList:
		labels, err := s.store.List(ctx)
		if err != nil {
			return nil, err
		}
		return &CommandResult{
			Type:    ResponseList,
			Message: FormatLabelList(labels),
			Labels:  labels,
		}, nil

	case command.KindHelp:
		return &CommandResult{Type: ResponseHelp, Message: command.HelpMessage}, nil

	default:
		return &CommandResult{
			Type:    ResponseError,
			Message: "I didn't understand that command. " + command.HelpMessage,
		}, nil
	}
}

func (s *Service) applyChange(ctx context.Context, intent command.Intent, actor string) (*CommandResult, error) {
	target, err := s.store.Resolve(ctx, intent.TargetKey)
	if errors.Is(err, models.ErrLabelNotFound) {
		labels, listErr := s.store.List(ctx)
		if listErr != nil {
			return nil, listErr
		}
		return &CommandResult{
			Type: ResponseError,
			Message: fmt.Sprintf(
				"I couldn't find a label matching %q. Please check the label name and try again.",
				intent.TargetKey),
			Suggestions: lo.Map(labels, func(l *models.Label, _ int) string {
				return l.Suggestion()
			}),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	source := intent.Raw
	result, err := s.ApplyDirectEdit(ctx, EditRequest{
		Key:        target.Key,
		Value:      intent.NewValue,
		Actor:      actor,
		ChangeType: models.ChangeCommand,
		SourceText: &source,
	})
	if err != nil {
		return nil, err
	}

	return &CommandResult{
		Type: ResponseSuccess,
		Message: fmt.Sprintf("Successfully changed %q from %q to %q",
			result.Label.Key, result.PreviousValue, result.Label.Value),
		Label: result.Label,
		Entry: result.Entry,
	}, nil
}

// FormatLabelList renders labels the way the chat interface lists them
func FormatLabelList(labels []*models.Label) string {
	lines := lo.Map(labels, func(l *models.Label, _ int) string {
		return fmt.Sprintf("• %s: %q (%s)", l.Key, l.Value, l.Page)
	})
	return "Here are all available labels:\n\n" + strings.Join(lines, "\n")
}
