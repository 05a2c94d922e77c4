package validation

import (
	"errors"
	"testing"

	"github.com/fieldworks/backoffice/internal/core/domain"
)

func validLabor() *domain.Labor {
	return &domain.Labor{
		Name:         "Ana Torres",
		Trade:        "electrician",
		Availability: domain.Available,
	}
}

func TestStruct_Valid(t *testing.T) {
	if err := Struct(validLabor()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStruct_ReportsFirstMissingFieldByJSONName(t *testing.T) {
	l := validLabor()
	l.Name = ""
	l.Trade = ""

	err := Struct(l)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *domain.ValidationError, got %T (%v)", err, err)
	}
	if ve.Field != "name" {
		t.Errorf("expected field name, got %q", ve.Field)
	}
	if ve.Rule != "required" {
		t.Errorf("expected rule required, got %q", ve.Rule)
	}
	if ve.Error() != "name is required" {
		t.Errorf("unexpected message %q", ve.Error())
	}
}

func TestStruct_Messages(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(l *domain.Labor)
		field  string
		msg    string
	}{
		{"enum", func(l *domain.Labor) { l.Availability = "busy" }, "availability", "availability must be one of: available assigned on-leave unavailable"},
		{"email", func(l *domain.Labor) { l.Email = "nope" }, "email", "email must be a valid email"},
		{"gte", func(l *domain.Labor) { l.HourlyRate = -1 }, "hourly_rate", "hourly_rate must be at least 0"},
		{"dive", func(l *domain.Labor) { l.Skills = []string{"ok", ""} }, "skills[1]", "skills[1] is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := validLabor()
			tc.mutate(l)
			var ve *domain.ValidationError
			if !errors.As(Struct(l), &ve) {
				t.Fatal("expected validation error")
			}
			if ve.Field != tc.field || ve.Message != tc.msg {
				t.Errorf("got (%q, %q), want (%q, %q)", ve.Field, ve.Message, tc.field, tc.msg)
			}
		})
	}
}

func TestStruct_NestedItemPath(t *testing.T) {
	o := &domain.Order{
		SupplierID:    "s1",
		Items:         []domain.OrderItem{{Description: "cable", Quantity: 0}},
		Status:        domain.OrderDraft,
		PaymentStatus: domain.PaymentUnpaid,
	}
	var ve *domain.ValidationError
	if !errors.As(Struct(o), &ve) {
		t.Fatal("expected validation error")
	}
	if ve.Field != "items[0].quantity" {
		t.Errorf("unexpected field %q", ve.Field)
	}
}

func TestStruct_DateLayout(t *testing.T) {
	ts := &domain.TimesheetEntry{
		LaborID:     "l1",
		JobID:       "j1",
		WorkDate:    "03/01/2025",
		HoursWorked: 8,
		Status:      domain.TimesheetDraft,
	}
	var ve *domain.ValidationError
	if !errors.As(Struct(ts), &ve) || ve.Field != "work_date" {
		t.Fatalf("expected work_date error, got %v", ve)
	}
}
