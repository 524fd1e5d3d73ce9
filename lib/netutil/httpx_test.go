// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"strings"
	"testing"
)

func TestReadResponseRejectsOversizedBody(t *testing.T) {
	oversized := strings.NewReader(strings.Repeat("x", int(MaxResponseSize)+1))
	if _, err := ReadResponse(oversized); err == nil {
		t.Fatal("expected an error for a body over the cap")
	}

	exact := strings.Repeat("y", 1024)
	data, err := ReadResponse(strings.NewReader(exact))
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if string(data) != exact {
		t.Error("body altered by bounded read")
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message envelope", `{"message":"invalid credentials"}`, "invalid credentials"},
		{"error envelope", `{"error":"not found"}`, "not found"},
		{"message wins over error", `{"message":"m","error":"e"}`, "m"},
		{"plain text fallback", "  gateway timeout \n", "gateway timeout"},
		{"empty body", "", ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := ErrorMessage(strings.NewReader(test.body)); got != test.want {
				t.Fatalf("ErrorMessage = %q, want %q", got, test.want)
			}
		})
	}
}
