package holiday

import (
	"errors"
	"testing"

	"location-visits/internal/domain"
)

func TestCalendar_NationalHolidays2023(t *testing.T) {
	c, err := NewCalendar(domain.HolidayRegion{State: "DE"})
	if err != nil {
		t.Fatalf("NewCalendar failed: %v", err)
	}

	dates, err := c.Holidays(2023)
	if err != nil {
		t.Fatalf("Holidays failed: %v", err)
	}

	// Fixed-date national holidays.
	for _, d := range []string{"2023-01-01", "2023-05-01", "2023-10-03", "2023-12-25", "2023-12-26"} {
		if !dates[d] {
			t.Errorf("missing national holiday %s", d)
		}
	}
	// Easter-relative: Good Friday 2023 was April 7, Easter Monday April 10.
	if !dates["2023-04-07"] {
		t.Error("missing Karfreitag 2023-04-07")
	}
	if !dates["2023-04-10"] {
		t.Error("missing Ostermontag 2023-04-10")
	}
	// Regional-only holidays must not appear in the national set.
	if dates["2023-01-06"] {
		t.Error("Heilige Drei Koenige should not be national")
	}
	if dates["2023-11-01"] {
		t.Error("Allerheiligen should not be national")
	}
}

func TestCalendar_BavarianSubdivision(t *testing.T) {
	c, err := NewCalendar(domain.HolidayRegion{State: "DE", Province: "BY"})
	if err != nil {
		t.Fatalf("NewCalendar failed: %v", err)
	}

	dates, err := c.Holidays(2023)
	if err != nil {
		t.Fatalf("Holidays failed: %v", err)
	}

	for _, d := range []string{"2023-01-06", "2023-06-08", "2023-08-15", "2023-11-01"} {
		if !dates[d] {
			t.Errorf("missing Bavarian holiday %s", d)
		}
	}
}

func TestCalendar_YearScoped(t *testing.T) {
	c, err := NewCalendar(domain.HolidayRegion{State: "DE"})
	if err != nil {
		t.Fatalf("NewCalendar failed: %v", err)
	}

	d23, err := c.Holidays(2023)
	if err != nil {
		t.Fatalf("Holidays(2023) failed: %v", err)
	}
	d24, err := c.Holidays(2024)
	if err != nil {
		t.Fatalf("Holidays(2024) failed: %v", err)
	}

	if d23["2024-01-01"] {
		t.Error("2023 set must not contain 2024 dates")
	}
	if !d24["2024-01-01"] {
		t.Error("2024 set missing Neujahr")
	}
	// Easter moves: Good Friday 2024 was March 29.
	if !d24["2024-03-29"] {
		t.Error("2024 set missing Karfreitag 2024-03-29")
	}
}

func TestNewCalendar_UnknownRegion(t *testing.T) {
	if _, err := NewCalendar(domain.HolidayRegion{State: "XX"}); !errors.Is(err, ErrUnknownRegion) {
		t.Errorf("expected ErrUnknownRegion for state XX, got %v", err)
	}
	if _, err := NewCalendar(domain.HolidayRegion{State: "DE", Province: "ZZ"}); !errors.Is(err, ErrUnknownRegion) {
		t.Errorf("expected ErrUnknownRegion for province ZZ, got %v", err)
	}
}

func TestStatic(t *testing.T) {
	s := Static{"2023-10-03": true}
	dates, err := s.Holidays(2023)
	if err != nil {
		t.Fatalf("Holidays failed: %v", err)
	}
	if !dates["2023-10-03"] || len(dates) != 1 {
		t.Errorf("unexpected static set: %v", dates)
	}
}
