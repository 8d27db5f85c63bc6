package services

// ChangeNotifier pushes change notifications to connected clients.
type ChangeNotifier interface {
	NotifyAccount(accountID int64, action string, payload any)
	NotifyAll(action string, payload any)
}

// ChangePayload identifies the resource a notification is about.
type ChangePayload struct {
	ID int64 `json:"id"`
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) NotifyAccount(int64, string, any) {}
func (NopNotifier) NotifyAll(string, any)            {}
