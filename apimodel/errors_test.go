package apimodel_test

import (
	"testing"

	"github.com/jrsteele09/go-jobportal-client/apimodel"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "error field", body: `{"error":"Invalid credentials"}`, want: "Invalid credentials"},
		{name: "message field", body: `{"message":"Already applied"}`, want: "Already applied"},
		{name: "error wins", body: `{"error":"a","message":"b"}`, want: "a"},
		{name: "blank error falls back", body: `{"error":"  ","message":"b"}`, want: "b"},
		{name: "not json", body: `<html>bad gateway</html>`, want: ""},
		{name: "empty", body: ``, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, apimodel.ErrorMessage([]byte(tt.body)))
		})
	}
}
