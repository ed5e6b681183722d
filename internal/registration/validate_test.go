package registration_test

import (
	"context"
	"testing"

	"github.com/codr1/Arena/internal/registration"
	"github.com/codr1/Arena/internal/testutil"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain", raw: "9876543210", want: "9876543210"},
		{name: "spaces and dashes", raw: " 98765-43210 ", want: "9876543210"},
		{name: "too short", raw: "987654321", wantErr: true},
		{name: "too long", raw: "98765432101", wantErr: true},
		{name: "letters", raw: "98765abcde", wantErr: true},
		{name: "invalid range", raw: "0123456789", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := registration.NormalizePhone(tt.raw, "IN")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseField(t *testing.T) {
	if f, err := registration.ParseField("phone_number"); err != nil || f != registration.FieldMobile {
		t.Fatalf("expected mobile alias, got %q %v", f, err)
	}
	if _, err := registration.ParseField("email"); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestCheckField(t *testing.T) {
	database := testutil.NewTestDB(t)
	testutil.CreateUser(t, database, "Asha", "9876543210")
	testutil.CreateCode(t, database, "SPRING24")
	v := registration.NewValidator(database.Queries, "IN")
	ctx := context.Background()

	tests := []struct {
		field registration.Field
		value string
		valid bool
		msg   string
	}{
		{registration.FieldName, "", false, "Name is required"},
		{registration.FieldName, "asha", false, "Name already exists"},
		{registration.FieldName, "Ravi", true, "Name is available"},
		{registration.FieldMobile, "", false, "Mobile number is required"},
		{registration.FieldMobile, "12345", false, "Invalid mobile number format"},
		{registration.FieldMobile, "9876543210", false, "Mobile number already registered"},
		{registration.FieldMobile, "9123456789", true, "Mobile number is available"},
		{registration.FieldTournamentCode, "", false, "Tournament code is required"},
		{registration.FieldTournamentCode, "NOPE", false, "Invalid tournament code"},
		{registration.FieldTournamentCode, "SPRING24", true, "Valid tournament code"},
	}

	for _, tt := range tests {
		res, err := v.CheckField(ctx, tt.field, tt.value)
		if err != nil {
			t.Fatalf("%s=%q: unexpected error: %v", tt.field, tt.value, err)
		}
		if res.Valid != tt.valid || res.Message != tt.msg {
			t.Fatalf("%s=%q: got (%v, %q), want (%v, %q)", tt.field, tt.value, res.Valid, res.Message, tt.valid, tt.msg)
		}
	}
}

func TestValidateSubmission(t *testing.T) {
	database := testutil.NewTestDB(t)
	testutil.CreateCode(t, database, "SPRING24")
	v := registration.NewValidator(database.Queries, "IN")

	sub, problems, err := v.ValidateSubmission(context.Background(), registration.Submission{
		Name:           "  Ravi ",
		Mobile:         "91234 56789",
		TournamentCode: "SPRING24",
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if sub.Name != "Ravi" || sub.Mobile != "9123456789" {
		t.Fatalf("unexpected normalized submission: %+v", sub)
	}

	_, problems, err = v.ValidateSubmission(context.Background(), registration.Submission{})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(problems) != 3 {
		t.Fatalf("expected 3 problems, got %v", problems)
	}
}

func TestIsOpen(t *testing.T) {
	database := testutil.NewTestDB(t)
	v := registration.NewValidator(database.Queries, "IN")
	ctx := context.Background()

	open, err := v.IsOpen(ctx)
	if err != nil {
		t.Fatalf("is open: %v", err)
	}
	if open {
		t.Fatal("expected registration to start closed")
	}

	testutil.SetRegistrationStatus(t, database, "open")
	open, err = v.IsOpen(ctx)
	if err != nil {
		t.Fatalf("is open: %v", err)
	}
	if !open {
		t.Fatal("expected registration to be open")
	}

	if _, err := database.Exec(`DELETE FROM registration_status`); err != nil {
		t.Fatalf("delete status: %v", err)
	}
	open, err = v.IsOpen(ctx)
	if err != nil || open {
		t.Fatalf("expected missing row to read closed, got %v %v", open, err)
	}
}
