package dto

import (
	"encoding/json"
	"testing"
)

func TestNewSignupsResponse_NilBecomesEmptyArray(t *testing.T) {
	b, err := json.Marshal(NewSignupsResponse(nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"signups":[]}` {
		t.Errorf("got %s", b)
	}
}
