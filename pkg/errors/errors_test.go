package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNewAndError(t *testing.T) {
	err := New(ErrCodeSnapshotNotFound, "snapshot %q missing", "shop")
	want := `SNAPSHOT_NOT_FOUND: snapshot "shop" missing`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !Is(err, ErrCodeSnapshotNotFound) {
		t.Error("Is did not match the error's own code")
	}
	if Is(err, ErrCodeLayout) {
		t.Error("Is matched a different code")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeStorage, cause, "save snapshot")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	if GetCode(err) != ErrCodeStorage {
		t.Errorf("GetCode = %q, want %q", GetCode(err), ErrCodeStorage)
	}

	// Wrapping again with fmt keeps the code findable.
	outer := fmt.Errorf("pipeline: %w", err)
	if GetCode(outer) != ErrCodeStorage {
		t.Errorf("GetCode through fmt wrap = %q, want %q", GetCode(outer), ErrCodeStorage)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidAction, "unknown action")
	if got := UserMessage(err); got != "unknown action" {
		t.Errorf("UserMessage = %q, want %q", got, "unknown action")
	}
	plain := stderrors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "boom")
	}
}

func TestGetCodeNonStructured(t *testing.T) {
	if got := GetCode(stderrors.New("boom")); got != "" {
		t.Errorf("GetCode = %q, want empty", got)
	}
}
