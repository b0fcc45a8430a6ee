package mqtt

import (
	"fmt"
	"testing"
)

func TestEventTopic(t *testing.T) {
	tests := []struct {
		eventType string
		want      string
	}{
		{"vip.activated", "animebot/events/vip/activated"},
		{"broadcast.finished", "animebot/events/broadcast/finished"},
		{"plain", "animebot/events/plain"},
	}
	for _, tt := range tests {
		if got := EventTopic(tt.eventType); got != tt.want {
			t.Errorf("EventTopic(%q) = %q, want %q", tt.eventType, got, tt.want)
		}
	}
}

func TestAnswer(t *testing.T) {
	var seen map[string]interface{}
	handler := func(p map[string]interface{}) (interface{}, error) {
		seen = p
		return map[string]int{"users": 3}, nil
	}

	topic, resp, err := answer("animebot/request/stats", []byte(`{"correlationId":"abc","payload":{"x":1}}`), handler)
	if err != nil {
		t.Fatalf("answer returned error: %v", err)
	}
	if topic != "animebot/response/stats/abc" {
		t.Errorf("response topic = %q", topic)
	}
	if resp.CorrelationID != "abc" || resp.Error != "" {
		t.Errorf("unexpected response %+v", resp)
	}
	if seen["_topic"] != "stats" || seen["x"] != float64(1) {
		t.Errorf("handler saw %v", seen)
	}
}

func TestAnswerCarriesHandlerError(t *testing.T) {
	handler := func(map[string]interface{}) (interface{}, error) {
		return nil, fmt.Errorf("db down")
	}
	_, resp, err := answer("animebot/request/stats", []byte(`{"correlationId":"1"}`), handler)
	if err != nil {
		t.Fatalf("answer returned error: %v", err)
	}
	if resp.Error != "db down" || resp.Data != nil {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestAnswerRejectsGarbage(t *testing.T) {
	_, _, err := answer("animebot/request/stats", []byte("{"), func(map[string]interface{}) (interface{}, error) { return nil, nil })
	if err == nil {
		t.Fatal("expected error for malformed request")
	}
}
