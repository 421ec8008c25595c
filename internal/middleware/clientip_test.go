package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header string
		values map[string]string
		want   string
	}{
		{
			name:   "trusted header",
			header: "CF-Connecting-IP",
			values: map[string]string{"CF-Connecting-IP": "203.0.113.5"},
			want:   "203.0.113.5",
		},
		{
			name:   "missing header",
			header: "CF-Connecting-IP",
			want:   UnknownClientIP,
		},
		{
			name:   "other proxy headers ignored",
			header: "CF-Connecting-IP",
			values: map[string]string{"X-Forwarded-For": "1.2.3.4"},
			want:   UnknownClientIP,
		},
		{
			name:   "list header takes first entry",
			header: "X-Forwarded-For",
			values: map[string]string{"X-Forwarded-For": " 1.2.3.4 , 5.6.7.8"},
			want:   "1.2.3.4",
		},
		{
			name:   "blank header",
			header: "CF-Connecting-IP",
			values: map[string]string{"CF-Connecting-IP": "   "},
			want:   UnknownClientIP,
		},
		{
			name: "no header configured",
			want: UnknownClientIP,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := ClientIP(tt.header)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = GetClientIP(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "10.9.8.7:5555"
			for k, v := range tt.values {
				req.Header.Set(k, v)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("client IP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var got string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got == "" || rec.Header().Get(RequestIDHeader) != got {
		t.Errorf("generated id %q, header %q", got, rec.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if got != "abc-123" {
		t.Errorf("request id = %q, want caller value", got)
	}
}
