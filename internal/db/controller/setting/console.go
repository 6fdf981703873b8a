package setting

import (
	"errors"

	"gorm.io/gorm"
)

// Known console setting names.
const (
	// NameConsoleTitle is the title shown in the console chrome.
	NameConsoleTitle = "console.title"
	// NameChatGreeting is the greeting a soul opens a new conversation with.
	NameChatGreeting = "console.chat.greeting"
	// NameQueuePageSize is the number of flagged chats shown per queue page.
	NameQueuePageSize = "console.counselor.queue_page_size"
)

// GetString retrieves a setting value as a string, returning the fallback
// when the setting does not exist.
func GetString(db *gorm.DB, name, fallback string) (string, error) {
	s, err := Get(db, name)
	if errors.Is(err, ErrSettingNotFound) {
		return fallback, nil
	}

	if err != nil {
		return "", err
	}

	return string(s.Value), nil
}

// SetString creates or updates a setting from a string value.
func SetString(db *gorm.DB, name, value string) error {
	_, err := Set(db, name, []byte(value))
	return err
}
