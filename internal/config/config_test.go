package config

import (
	"errors"
	"testing"
)

const validYAML = `
vacation:
  - "2023-01-02"
  - from: "2023-07-10"
    to: "2023-07-21"
worktimes: ["09:00", "18:00"]
workdays: [1, 2, 3, 4, 5]
bank_holidays:
  state: DE
  province: BW
areas:
  - tag: Office
    lat: 52.52
    lng: 13.405
    radius: 200
  - tag: Plant
    lat: 52.3906
    lng: 13.0645
    radius: 350
`

func TestParse_Valid(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	entries := cfg.VacationEntries()
	if len(entries) != 2 {
		t.Fatalf("vacation entries = %d, want 2", len(entries))
	}
	if entries[0].From != "2023-01-02" || entries[0].To != "" {
		t.Errorf("scalar vacation entry = %+v, want single day 2023-01-02", entries[0])
	}
	if entries[1].From != "2023-07-10" || entries[1].To != "2023-07-21" {
		t.Errorf("range vacation entry = %+v", entries[1])
	}

	sched := cfg.Schedule()
	if sched.WorktimeStart != "09:00" || sched.WorktimeEnd != "18:00" {
		t.Errorf("worktimes = %q..%q", sched.WorktimeStart, sched.WorktimeEnd)
	}
	for _, d := range []int{1, 2, 3, 4, 5} {
		if !sched.Workdays[d] {
			t.Errorf("workday %d missing from schedule", d)
		}
	}
	if sched.Workdays[0] || sched.Workdays[6] {
		t.Error("weekend days should not be workdays")
	}
	if sched.Holidays.State != "DE" || sched.Holidays.Province != "BW" {
		t.Errorf("holiday region = %+v", sched.Holidays)
	}

	if len(cfg.Areas) != 2 {
		t.Fatalf("areas = %d, want 2", len(cfg.Areas))
	}
	if cfg.Areas[0].Tag != "Office" || cfg.Areas[0].RadiusM != 200 {
		t.Errorf("first area = %+v", cfg.Areas[0])
	}
}

func TestParse_ScheduleErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing worktime end", `
worktimes: ["09:00"]
workdays: [1]
`},
		{"unpadded worktime", `
worktimes: ["9:00", "18:00"]
workdays: [1]
`},
		{"not a clock time", `
worktimes: ["09:00", "25:00"]
workdays: [1]
`},
		{"start after end", `
worktimes: ["18:00", "09:00"]
workdays: [1]
`},
		{"empty workdays", `
worktimes: ["09:00", "18:00"]
workdays: []
`},
		{"workday out of range", `
worktimes: ["09:00", "18:00"]
workdays: [1, 7]
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if !errors.Is(err, ErrInvalidScheduleConfig) {
				t.Fatalf("err = %v, want ErrInvalidScheduleConfig", err)
			}
		})
	}
}

func TestParse_AreaErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing tag", `
worktimes: ["09:00", "18:00"]
workdays: [1]
areas:
  - lat: 52.52
    lng: 13.405
    radius: 200
`},
		{"zero radius", `
worktimes: ["09:00", "18:00"]
workdays: [1]
areas:
  - tag: Office
    lat: 52.52
    lng: 13.405
    radius: 0
`},
		{"latitude out of range", `
worktimes: ["09:00", "18:00"]
workdays: [1]
areas:
  - tag: Office
    lat: 95.0
    lng: 13.405
    radius: 200
`},
		{"longitude out of range", `
worktimes: ["09:00", "18:00"]
workdays: [1]
areas:
  - tag: Office
    lat: 52.52
    lng: -200.0
    radius: 200
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if !errors.Is(err, ErrInvalidAreaConfig) {
				t.Fatalf("err = %v, want ErrInvalidAreaConfig", err)
			}
		})
	}
}

func TestParse_NonNumericCoordinate(t *testing.T) {
	_, err := Parse([]byte(`
worktimes: ["09:00", "18:00"]
workdays: [1]
areas:
  - tag: Office
    lat: north
    lng: 13.405
    radius: 200
`))
	if err == nil {
		t.Fatal("expected parse error for non-numeric latitude")
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("worktimes: [")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
