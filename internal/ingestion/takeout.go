package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"location-visits/internal/domain"
	"location-visits/internal/observability"
)

// TakeoutSource reads a Google Takeout location history export:
// a single JSON object with a "locations" array.
type TakeoutSource struct {
	path   string
	logger *log.Logger
}

var _ PointSource = (*TakeoutSource)(nil)

// NewTakeoutSource creates a source backed by a Takeout JSON file.
func NewTakeoutSource(path string) *TakeoutSource {
	return &TakeoutSource{
		path:   path,
		logger: log.New(os.Stdout, "[takeout] ", log.LstdFlags|log.Lshortfile),
	}
}

// Points reads and parses the whole export file.
func (s *TakeoutSource) Points(ctx context.Context) ([]*domain.RawLocation, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open takeout file %s: %w", s.path, err)
	}
	defer f.Close()

	points, err := ParseTakeout(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("parse takeout file %s: %w", s.path, err)
	}
	s.logger.Printf("Parsed %d raw locations from %s", len(points), s.path)
	return points, nil
}

// takeoutLocation is one entry of the "locations" array. Exports carry
// extra fields (activity, altitude, heading, velocity); those are
// ignored. timestampMs appears both as a JSON string and as a number
// depending on export vintage.
type takeoutLocation struct {
	TimestampMs json.RawMessage `json:"timestampMs"`
	LatitudeE7  int64           `json:"latitudeE7"`
	LongitudeE7 int64           `json:"longitudeE7"`
	Accuracy    int             `json:"accuracy"`
}

// ParseTakeout streams the "locations" array out of an export without
// loading the whole file into memory. Entries lacking a timestamp are
// dropped; a malformed document is an error.
func ParseTakeout(ctx context.Context, r io.Reader) ([]*domain.RawLocation, error) {
	dec := json.NewDecoder(r)

	// Opening brace of the top-level object.
	if tok, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read document start: %w", err)
	} else if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var points []*domain.RawLocation
	dropped := 0

	for dec.More() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read object key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}

		if key != "locations" {
			// Skip unrelated top-level values wholesale.
			var discard json.RawMessage
			if err := dec.Decode(&discard); err != nil {
				return nil, fmt.Errorf("skip field %q: %w", key, err)
			}
			continue
		}

		// Opening bracket of the locations array.
		if tok, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("read locations start: %w", err)
		} else if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			return nil, fmt.Errorf("expected locations array, got %v", tok)
		}

		for dec.More() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			var entry takeoutLocation
			if err := dec.Decode(&entry); err != nil {
				return nil, fmt.Errorf("decode location entry %d: %w", len(points)+dropped, err)
			}

			ts, ok := timestampString(entry.TimestampMs)
			if !ok {
				dropped++
				continue
			}

			points = append(points, &domain.RawLocation{
				TimestampMs: ts,
				LatitudeE7:  entry.LatitudeE7,
				LongitudeE7: entry.LongitudeE7,
				Accuracy:    entry.Accuracy,
			})
		}

		// Closing bracket.
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("read locations end: %w", err)
		}
	}

	if dropped > 0 {
		log.Printf("[takeout] Dropped %d entries without timestamp", dropped)
		observability.RecordPointsDropped("no_timestamp", dropped)
	}
	return points, nil
}

// timestampString normalizes the two timestampMs encodings to a string.
func timestampString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return "", false
		}
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false
	}
	// Reject fractional or exponent forms; epoch millis are integral.
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return "", false
	}
	return n.String(), true
}
