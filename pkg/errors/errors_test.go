package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFoundOrUnauthorized, status: http.StatusInternalServerError, publicMsg: "notification not found or not authorized"},
		{code: CodeStore, status: http.StatusInternalServerError, publicMsg: "storage operation failed"},
		{code: CodeSerialization, status: http.StatusInternalServerError, publicMsg: "payload serialization failed"},
		{code: CodeDelivery, status: http.StatusInternalServerError, publicMsg: "push delivery failed"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusInternalServerError, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing device_token")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing device_token" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detailed := base.WithDetails(map[string]string{"field": "device_token"})
	if detailed.Details() == nil {
		t.Fatal("expected details to be attached")
	}

	cause := stdErrors.New("disk full")
	wrapped := Wrap(CodeStore, cause, "insert device")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("expected wrapped error to unwrap to cause")
	}
	if wrapped.Code() != CodeStore {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := Wrap(CodeNotFoundOrUnauthorized, stdErrors.New("zero rows"), "mark read")
	typed := As(err)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeNotFoundOrUnauthorized {
		t.Fatalf("unexpected code %s", typed.Code())
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("plain errors should not convert")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("constraint violated")
	err := Wrap(CodeStore, cause, "upsert device")
	dump := Dump(err)
	if dump.Code != CodeStore {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", dump.Chain)
	}
}

func TestDumpClassifiesConstraintViolations(t *testing.T) {
	tests := []struct {
		name      string
		cause     error
		violation string
	}{
		{
			name: "pgxDuplicateDeviceToken",
			cause: &pgconn.PgError{
				Code:           "23505",
				ConstraintName: "devices_device_token_key",
				Detail:         "Key (device_token)=(tok-1) already exists.",
			},
			violation: "unique",
		},
		{
			name: "pqDanglingHistoryRow",
			cause: &pq.Error{
				Code:       "23503",
				Constraint: "notification_history_notification_id_fkey",
			},
			violation: "foreign_key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dump := Dump(Wrap(CodeStore, tt.cause, "store op"))
			if dump.PGViolation != tt.violation {
				t.Fatalf("expected violation %q, got %q", tt.violation, dump.PGViolation)
			}
			if dump.PGConstraint == "" {
				t.Fatal("expected constraint name to survive")
			}
		})
	}
}
