package notifier

import (
	"encoding/json"
	"testing"
)

func TestDispatchUpdates_RepliesToOriginChat(t *testing.T) {
	payload := `[
		{"update_id": 7, "message": {"text": "/book", "chat": {"id": 111}}},
		{"update_id": 8, "message": {"text": "", "chat": {"id": 222}}},
		{"update_id": 9, "message": {"text": " /help ", "chat": {"id": 333}}}
	]`
	var updates []telegramUpdate
	if err := json.Unmarshal([]byte(payload), &updates); err != nil {
		t.Fatalf("unmarshal updates: %v", err)
	}

	handler := func(cmd string) string {
		switch cmd {
		case "/book":
			return "book reply"
		case "/help":
			return "help reply"
		}
		t.Errorf("unexpected command %q", cmd)
		return ""
	}

	var sent []string
	offset := dispatchUpdates(updates, 0, handler, func(chatID, text string) {
		sent = append(sent, chatID+": "+text)
	})

	if offset != 10 {
		t.Errorf("expected next offset 10, got %d", offset)
	}
	want := []string{"111: book reply", "333: help reply"}
	if len(sent) != len(want) {
		t.Fatalf("expected %d replies, got %d: %v", len(want), len(sent), sent)
	}
	for i, w := range want {
		if sent[i] != w {
			t.Errorf("reply %d: expected %q, got %q", i, w, sent[i])
		}
	}
}

func TestDispatchUpdates_SilentCommandsSendNothing(t *testing.T) {
	payload := `[{"update_id": 1, "message": {"text": "/report", "chat": {"id": 42}}}]`
	var updates []telegramUpdate
	if err := json.Unmarshal([]byte(payload), &updates); err != nil {
		t.Fatalf("unmarshal updates: %v", err)
	}

	offset := dispatchUpdates(updates, 0, func(string) string { return "" }, func(chatID, text string) {
		t.Errorf("unexpected reply to %s: %q", chatID, text)
	})
	if offset != 2 {
		t.Errorf("expected next offset 2, got %d", offset)
	}
}
