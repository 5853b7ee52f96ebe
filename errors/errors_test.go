package errors

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		kind      *Error
		err       error
		wantMatch bool
	}{
		"instance of the same root": {
			kind:      ErrNotFound,
			err:       ErrNotFound,
			wantMatch: true,
		},
		"wrapped instance of the same root": {
			kind:      ErrNotFound,
			err:       Wrap(ErrNotFound, "mosquito"),
			wantMatch: true,
		},
		"deeply wrapped instance of the same root": {
			kind:      ErrNotFound,
			err:       Wrap(Wrap(ErrNotFound, "inner"), "outer"),
			wantMatch: true,
		},
		"different root": {
			kind:      ErrNotFound,
			err:       ErrDuplicate,
			wantMatch: false,
		},
		"stdlib error": {
			kind:      ErrNotFound,
			err:       fmt.Errorf("stdlib"),
			wantMatch: false,
		},
		"pkg/errors error": {
			kind:      ErrNotFound,
			err:       errors.New("pkg"),
			wantMatch: false,
		},
		"nil error against a root": {
			kind:      ErrNotFound,
			err:       nil,
			wantMatch: false,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.wantMatch {
				t.Fatalf("unexpected match result: %v", got)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "ignored"); err != nil {
		t.Fatalf("wrapping nil must return nil, got %+v", err)
	}
}

func TestWrapPreservesMessage(t *testing.T) {
	err := Wrap(ErrAmount, "zero deposit")
	want := "zero deposit: invalid amount"
	if got := err.Error(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRegisterPanicsOnCollision(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("reusing an error code must panic")
		}
	}()
	Register(2, "colliding with ErrUnauthorized")
}

func TestRecover(t *testing.T) {
	var err error
	func() {
		defer Recover(&err)
		panic("totally unexpected")
	}()
	if !ErrPanic.Is(err) {
		t.Fatalf("want ErrPanic, got %+v", err)
	}
}
