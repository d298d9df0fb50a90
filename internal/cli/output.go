package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/thenoetrevino/relabel/internal/cli/styles"
	"github.com/thenoetrevino/relabel/internal/client"
	"github.com/thenoetrevino/relabel/internal/models"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool

	Out io.Writer // defaults to os.Stdout
	Err io.Writer // defaults to os.Stderr
}

type idGetter interface{ GetID() int }

// Success outputs successful operation result
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Quiet {
		if ids, ok := collectIDs(data); ok {
			for _, id := range ids {
				fmt.Fprintf(f.stdout(), "%d\n", id)
			}
			return nil
		}
	}

	if f.JSON {
		return json.NewEncoder(f.stdout()).Encode(map[string]interface{}{
			"success": true,
			"data":    data,
		})
	}

	// Human-readable format
	return f.prettyPrint(data)
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]interface{}{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(f.stdout()).Encode(map[string]interface{}{
			"success": false,
			"error":   errData,
		})
	}

	// Human-readable error
	fmt.Fprintf(f.stderr(), "❌ Error: %s\n", message)
	if suggestion != "" {
		fmt.Fprintf(f.stderr(), "💡 Suggestion: %s\n", suggestion)
	}
	return nil
}

// prettyPrint formats data for human-readable output
func (f *OutputFormatter) prettyPrint(data interface{}) error {
	w := f.stdout()

	switch v := data.(type) {
	case string:
		fmt.Fprintln(w, v)
	case *models.Label:
		fmt.Fprintln(w, styles.RenderLabel(v))
	case []*models.Label:
		if len(v) == 0 {
			fmt.Fprintln(w, "No labels found")
			return nil
		}
		page := ""
		for i, lbl := range v {
			if i == 0 || lbl.Page != page {
				page = lbl.Page
				fmt.Fprintln(w, styles.SectionStyle.Render(page))
			}
			fmt.Fprintln(w, "  "+styles.RenderLabel(lbl))
		}
	case []*models.HistoryEntry:
		if len(v) == 0 {
			fmt.Fprintln(w, "No history yet")
			return nil
		}
		for _, entry := range v {
			fmt.Fprintln(w, styles.RenderHistoryEntry(entry))
		}
	case *client.UpdateResponse:
		fmt.Fprintf(w, "✓ Label %s updated\n", v.Label.Key)
		fmt.Fprintf(w, "  %s\n", styles.RenderChange(v.PreviousValue, v.Label.Value))
	default:
		fmt.Fprintf(w, "%+v\n", data)
	}
	return nil
}

func collectIDs(data interface{}) ([]int, bool) {
	switch v := data.(type) {
	case idGetter:
		return []int{v.GetID()}, true
	case []*models.Label:
		return ids(v), true
	case []*models.HistoryEntry:
		return ids(v), true
	}
	return nil, false
}

func ids[T idGetter](items []T) []int {
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = item.GetID()
	}
	return out
}

func (f *OutputFormatter) stdout() io.Writer {
	if f.Out != nil {
		return f.Out
	}
	return os.Stdout
}

func (f *OutputFormatter) stderr() io.Writer {
	if f.Err != nil {
		return f.Err
	}
	return os.Stderr
}
