package ingestion

import (
	"context"
	"strings"
	"testing"
)

func TestParseTakeout(t *testing.T) {
	doc := `{
		"locations": [
			{
				"timestampMs": "1686821400000",
				"latitudeE7": 525200000,
				"longitudeE7": 134050000,
				"accuracy": 20,
				"activity": [{"type": "STILL", "confidence": 80}],
				"altitude": 43
			},
			{
				"timestampMs": 1686825000000,
				"latitudeE7": 523906000,
				"longitudeE7": 130645000,
				"accuracy": 12
			}
		]
	}`

	points, err := ParseTakeout(context.Background(), strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseTakeout: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2", len(points))
	}

	if points[0].TimestampMs != "1686821400000" {
		t.Errorf("string timestamp = %q", points[0].TimestampMs)
	}
	if points[0].LatitudeE7 != 525200000 || points[0].LongitudeE7 != 134050000 {
		t.Errorf("coords = %d,%d", points[0].LatitudeE7, points[0].LongitudeE7)
	}
	if points[0].Accuracy != 20 {
		t.Errorf("accuracy = %d", points[0].Accuracy)
	}

	if points[1].TimestampMs != "1686825000000" {
		t.Errorf("numeric timestamp = %q, want string form", points[1].TimestampMs)
	}
}

func TestParseTakeout_DropsEntriesWithoutTimestamp(t *testing.T) {
	doc := `{
		"locations": [
			{"latitudeE7": 525200000, "longitudeE7": 134050000, "accuracy": 20},
			{"timestampMs": "1686821400000", "latitudeE7": 525200000, "longitudeE7": 134050000, "accuracy": 20}
		]
	}`

	points, err := ParseTakeout(context.Background(), strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseTakeout: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("points = %d, want 1 (untimestamped entry dropped)", len(points))
	}
}

func TestParseTakeout_IgnoresUnrelatedTopLevelFields(t *testing.T) {
	doc := `{
		"settings": {"unit": "metric"},
		"locations": [
			{"timestampMs": "1686821400000", "latitudeE7": 1, "longitudeE7": 2, "accuracy": 3}
		],
		"deviceTag": 12345
	}`

	points, err := ParseTakeout(context.Background(), strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseTakeout: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("points = %d, want 1", len(points))
	}
}

func TestParseTakeout_EmptyLocations(t *testing.T) {
	points, err := ParseTakeout(context.Background(), strings.NewReader(`{"locations": []}`))
	if err != nil {
		t.Fatalf("ParseTakeout: %v", err)
	}
	if len(points) != 0 {
		t.Fatalf("points = %d, want 0", len(points))
	}
}

func TestParseTakeout_Malformed(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"not an object", `[1, 2, 3]`},
		{"locations not an array", `{"locations": {"a": 1}}`},
		{"truncated", `{"locations": [{"timestampMs": "1"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseTakeout(context.Background(), strings.NewReader(tc.doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestTimestampString(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"string", `"1686821400000"`, "1686821400000", true},
		{"number", `1686821400000`, "1686821400000", true},
		{"empty string", `""`, "", false},
		{"fractional", `1686821400000.5`, "", false},
		{"missing", ``, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := timestampString([]byte(tc.raw))
			if ok != tc.ok || got != tc.want {
				t.Fatalf("timestampString(%q) = %q, %t; want %q, %t", tc.raw, got, ok, tc.want, tc.ok)
			}
		})
	}
}
