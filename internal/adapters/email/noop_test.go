package email

import (
	"context"
	"testing"
)

func TestNoopSender_RecordsRequests(t *testing.T) {
	s := NewNoopSender()
	for _, subject := range []string{"one", "two"} {
		res, err := s.Send(context.Background(), SendRequest{To: []string{"a@b.ph"}, Subject: subject})
		if err != nil {
			t.Fatalf("Send: %v", err)
		}
		if res.MessageID == "" || res.SentAt.IsZero() {
			t.Errorf("incomplete result %+v", res)
		}
	}
	sent := s.Sent()
	if len(sent) != 2 || sent[1].Subject != "two" {
		t.Fatalf("unexpected recorded requests %+v", sent)
	}
	sent[0].Subject = "changed"
	if s.Sent()[0].Subject != "one" {
		t.Error("Sent should return a copy")
	}
}
