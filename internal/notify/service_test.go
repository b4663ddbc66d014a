package notify

import (
	"context"
	"testing"

	"firebase.google.com/go/v4/messaging"
)

type fakePusher struct {
	last *messaging.Message
}

func (f *fakePusher) Send(_ context.Context, m *messaging.Message) (string, error) {
	f.last = m
	return "msg-1", nil
}

func TestSendPushForwardsNotificationAndData(t *testing.T) {
	pusher := &fakePusher{}
	svc := NewService(nil, pusher)

	data := map[string]string{"vacancy_id": "vac-1", "action": "interview_scheduled"}
	err := svc.SendPush(context.Background(), "tok-1", "Interview invitation", "You advanced to the next stage", data)
	if err != nil {
		t.Fatalf("SendPush: %v", err)
	}

	if pusher.last == nil {
		t.Fatal("expected a message to be sent")
	}
	if pusher.last.Token != "tok-1" {
		t.Errorf("unexpected token %q", pusher.last.Token)
	}
	if pusher.last.Notification == nil || pusher.last.Notification.Title != "Interview invitation" {
		t.Errorf("unexpected notification %+v", pusher.last.Notification)
	}
	if pusher.last.Data["vacancy_id"] != "vac-1" || pusher.last.Data["action"] != "interview_scheduled" {
		t.Errorf("unexpected data payload %v", pusher.last.Data)
	}
}

func TestSendPushWithoutPusherConfigured(t *testing.T) {
	svc := NewService(nil, nil)
	if err := svc.SendPush(context.Background(), "tok", "title", "body", nil); err == nil {
		t.Fatal("expected an error when push messaging is not configured")
	}
}
