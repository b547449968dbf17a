/*
Package holidays imports public holiday files into a HolidayStore.

FORMATS:
  JSON (*.json):
    {"holidays": [
      {"date": "2023-03-16", "description": "Local festivity"},
      {"date": "2023-12-25", "description": "Christmas", "recurring": true}
    ]}

  Text (anything else), one holiday per line, '#' starts a comment:
    2023-03-16 Local festivity
    2023-12-25 recurring Christmas

Malformed text lines are logged and skipped. A malformed JSON document
fails the whole import.
*/
package holidays

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/worktime-engine/generic"
)

// FileJSON is the JSON holiday document.
type FileJSON struct {
	Holidays []HolidayJSON `json:"holidays"`
}

type HolidayJSON struct {
	ID          string `json:"id,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Recurring   bool   `json:"recurring,omitempty"`
}

// Importer writes parsed holidays to Store.
type Importer struct {
	Store  generic.HolidayStore
	Logger *zap.Logger
}

func NewImporter(store generic.HolidayStore, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{Store: store, Logger: logger}
}

// ImportFile imports path, choosing the format from its extension. It
// returns the number of holidays saved.
func (i *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer f.Close()

	var list []generic.Holiday
	if strings.EqualFold(filepath.Ext(path), ".json") {
		list, err = ParseJSON(f)
	} else {
		list, err = i.ParseText(f)
	}
	if err != nil {
		return 0, err
	}
	return i.Save(ctx, list)
}

// Save stores every holiday, generating ids where missing.
func (i *Importer) Save(ctx context.Context, list []generic.Holiday) (int, error) {
	for n, h := range list {
		if h.ID == "" {
			h.ID = uuid.NewString()
		}
		if err := i.Store.SaveHoliday(ctx, h); err != nil {
			return n, fmt.Errorf("save holiday %s: %w", generic.FormatDate(h.Date), err)
		}
		i.Logger.Debug("Holiday imported",
			zap.String("date", generic.FormatDate(h.Date)),
			zap.String("description", h.Description),
			zap.Bool("recurring", h.Recurring))
	}
	i.Logger.Info("Holidays imported", zap.Int("count", len(list)))
	return len(list), nil
}

// ParseJSON decodes a JSON holiday document.
func ParseJSON(r io.Reader) ([]generic.Holiday, error) {
	var doc FileJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse holiday JSON: %w", err)
	}
	out := make([]generic.Holiday, 0, len(doc.Holidays))
	for _, hj := range doc.Holidays {
		d, err := generic.ParseDate(hj.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday %q: invalid date %q: %w", hj.Description, hj.Date, err)
		}
		out = append(out, generic.Holiday{
			ID:          hj.ID,
			Description: hj.Description,
			Date:        d,
			Recurring:   hj.Recurring,
		})
	}
	return out, nil
}

// ParseText reads the line format.
func (i *Importer) ParseText(r io.Reader) ([]generic.Holiday, error) {
	var out []generic.Holiday
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		d, err := generic.ParseDate(parts[0])
		if err != nil {
			i.Logger.Warn("Failed to parse date", zap.String("line", line), zap.Error(err))
			continue
		}

		h := generic.Holiday{Date: d}
		if len(parts) == 2 {
			rest := strings.TrimSpace(parts[1])
			if after, ok := strings.CutPrefix(rest, "recurring"); ok {
				h.Recurring = true
				rest = strings.TrimSpace(after)
			}
			h.Description = rest
		}
		out = append(out, h)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read holiday file: %w", err)
	}
	return out, nil
}
