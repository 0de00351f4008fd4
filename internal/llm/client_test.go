package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func apiErr(status int) error {
	return fmt.Errorf("chat completion: %w", &openai.APIError{HTTPStatusCode: status, Message: "x"})
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{apiErr(429), true},
		{apiErr(500), true},
		{apiErr(503), true},
		{apiErr(408), true},
		{apiErr(401), false},
		{apiErr(403), false},
		{apiErr(400), false},
		{context.DeadlineExceeded, true},
		{fmt.Errorf("attempt: %w", context.DeadlineExceeded), true},
		{errors.New("malformed response"), false},
		{nil, false},
	}

	for _, tc := range cases {
		if got := IsTransient(tc.err); got != tc.want {
			t.Errorf("IsTransient(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestIsAuth(t *testing.T) {
	if !IsAuth(apiErr(401)) || !IsAuth(apiErr(403)) {
		t.Errorf("401/403 must classify as auth errors")
	}
	if IsAuth(apiErr(429)) || IsAuth(errors.New("other")) {
		t.Errorf("non-auth errors misclassified")
	}
}

func TestRequestErrorStatus(t *testing.T) {
	err := &openai.RequestError{HTTPStatusCode: 502, Err: errors.New("bad gateway")}
	if !IsTransient(err) {
		t.Errorf("502 request error must be transient")
	}
}
