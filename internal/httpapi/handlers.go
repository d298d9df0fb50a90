package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/thenoetrevino/relabel/internal/models"
	"github.com/thenoetrevino/relabel/internal/services/history"
	"github.com/thenoetrevino/relabel/internal/services/mutation"
)

var validate = validator.New()

// UpdateLabelRequest is the body of PUT /api/labels/:key
type UpdateLabelRequest struct {
	Value      string  `json:"value" validate:"required"`
	ChangeType string  `json:"changeType" validate:"omitempty,oneof=manual chatbot"`
	SourceText *string `json:"sourceText"`
	// Accepted for compatibility with older clients
	ChatbotCommand *string `json:"chatbotCommand"`
}

// CommandRequest is the body of POST /api/chatbot/process
type CommandRequest struct {
	Command string `json:"command" validate:"required"`
}

// listLabels serves GET /api/labels
func (s *Server) listLabels(c *gin.Context) {
	labels, err := s.deps.Store.List(c.Request.Context())
	if err != nil {
		sendServiceError(c, err, "")
		return
	}
	if labels == nil {
		labels = []*models.Label{}
	}

	sendSuccess(c, http.StatusOK, "Labels retrieved successfully", gin.H{
		"labels":    groupByPage(labels),
		"rawLabels": labels,
	})
}

// groupByPage builds page -> key -> value
func groupByPage(labels []*models.Label) map[string]map[string]string {
	byPage := lo.GroupBy(labels, func(l *models.Label) string { return l.Page })
	return lo.MapValues(byPage, func(ls []*models.Label, _ string) map[string]string {
		return lo.SliceToMap(ls, func(l *models.Label) (string, string) { return l.Key, l.Value })
	})
}

// updateLabel serves PUT /api/labels/:key
func (s *Server) updateLabel(c *gin.Context) {
	key := c.Param("key")

	var req UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Field() == "Value" {
			sendError(c, http.StatusBadRequest, "Label value is required")
			return
		}
		sendError(c, http.StatusBadRequest, "changeType must be manual or chatbot")
		return
	}

	source := req.SourceText
	if source == nil {
		source = req.ChatbotCommand
	}
	changeType := models.ChangeType(req.ChangeType)
	if changeType == models.ChangeCommand && strings.TrimSpace(lo.FromPtr(source)) == "" {
		sendError(c, http.StatusBadRequest, "sourceText is required for chatbot changes")
		return
	}

	result, err := s.deps.Mutations.ApplyDirectEdit(c.Request.Context(), mutation.EditRequest{
		Key:        key,
		Value:      req.Value,
		Actor:      getClaims(c).Actor(),
		ChangeType: changeType,
		SourceText: source,
	})
	if err != nil {
		sendServiceError(c, err, fmt.Sprintf("Label with key '%s' not found", key))
		return
	}

	sendSuccess(c, http.StatusOK, "Label updated successfully", gin.H{
		"label":         result.Label,
		"previousValue": result.PreviousValue,
		"history":       result.Entry,
	})
}

// labelHistory serves GET /api/labels/history?limit&labelKey
func (s *Server) labelHistory(c *gin.Context) {
	limit := history.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			sendError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := s.deps.Ledger.Query(c.Request.Context(), history.Filter{
		Key:   c.Query("labelKey"),
		Limit: limit,
	})
	if err != nil {
		sendServiceError(c, err, "")
		return
	}

	sendSuccess(c, http.StatusOK, "History retrieved successfully", gin.H{
		"history": entries,
	})
}

// searchLabels serves GET /api/labels/search?query
func (s *Server) searchLabels(c *gin.Context) {
	query := c.Query("query")
	if strings.TrimSpace(query) == "" {
		sendError(c, http.StatusBadRequest, "Search query is required")
		return
	}

	labels, err := s.deps.Store.Search(c.Request.Context(), query)
	if err != nil {
		sendServiceError(c, err, "")
		return
	}

	sendSuccess(c, http.StatusOK, "Search completed", gin.H{
		"labels": labels,
		"count":  len(labels),
	})
}

var commandMessages = map[mutation.ResponseType]string{
	mutation.ResponseSuccess: "Label updated successfully",
	mutation.ResponseList:    "Labels listed",
	mutation.ResponseHelp:    "Help information",
	mutation.ResponseError:   "Command not completed",
}

// processCommand serves POST /api/chatbot/process
func (s *Server) processCommand(c *gin.Context) {
	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil || strings.TrimSpace(req.Command) == "" {
		sendError(c, http.StatusBadRequest, "Command is required")
		return
	}

	result, err := s.deps.Mutations.ApplyCommand(c.Request.Context(), req.Command, getClaims(c).Actor())
	if err != nil {
		sendServiceError(c, err, "Label not found")
		return
	}

	data := gin.H{
		"response": result.Message,
		"type":     result.Type,
	}
	if result.Label != nil {
		data["label"] = gin.H{
			"label_key": result.Label.Key,
			"old_value": result.Entry.OldValue,
			"new_value": result.Label.Value,
			"page":      result.Label.Page,
		}
	}
	if result.Labels != nil {
		data["labels"] = result.Labels
	}
	if result.Suggestions != nil {
		data["suggestions"] = result.Suggestions
	}

	sendSuccess(c, http.StatusOK, commandMessages[result.Type], data)
}

// health serves GET /health
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "Server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"hub":       s.deps.Hub.Metrics(),
	})
}
