package notify

import "testing"

type memStore map[string]any

func (m memStore) GetBool(key string, def bool) bool {
	v, ok := m[key].(bool)
	if !ok {
		return def
	}
	return v
}

func (m memStore) Set(key string, value any) error {
	m[key] = value
	return nil
}

func TestHideNoticeShownOnce(t *testing.T) {
	store := memStore{}
	sent := 0
	n := NewHideNotice("App", "seen", nil, store, nil).WithSender(func(title, message string, icon any) error {
		sent++
		if title != "App" || message == "" {
			t.Fatalf("unexpected notification %q %q", title, message)
		}
		return nil
	})

	n.Show()
	n.Show()
	if sent != 1 {
		t.Fatalf("expected one notification, got %d", sent)
	}
	if !store.GetBool("seen", false) {
		t.Fatal("expected the notice to be persisted")
	}

	again := NewHideNotice("App", "seen", nil, store, nil).WithSender(func(string, string, any) error {
		sent++
		return nil
	})
	again.Show()
	if sent != 1 {
		t.Fatal("notice repeated after restart")
	}
}
