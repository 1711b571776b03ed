package telegram

import (
	"encoding/json"
	"fmt"

	"github.com/celestix/gotgproto/storage"
	"github.com/gotd/td/session"
	"gorm.io/gorm"
)

// ConvertToGotgprotoSession converts gotd session.Data to gotgproto storage.Session.
// gotgproto expects the raw JSON of session.Data in storage.Session.Data.
func ConvertToGotgprotoSession(data *session.Data) (*storage.Session, error) {
	if data == nil {
		return nil, fmt.Errorf("session data is nil")
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal session data: %w", err)
	}

	return &storage.Session{
		Version: storage.LatestVersion,
		Data:    dataJSON,
	}, nil
}

// SaveSession writes data into the gotgproto sessions table of db,
// replacing any stored session.
func SaveSession(db *gorm.DB, data *session.Data) error {
	sess, err := ConvertToGotgprotoSession(data)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(&storage.Session{}); err != nil {
		return fmt.Errorf("migrate sessions table: %w", err)
	}
	// Version is the primary key, so Save upserts the single row
	if err := db.Save(sess).Error; err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// HasSession reports whether db holds a stored session.
func HasSession(db *gorm.DB) (bool, error) {
	if !db.Migrator().HasTable(&storage.Session{}) {
		return false, nil
	}
	var count int64
	if err := db.Model(&storage.Session{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count sessions: %w", err)
	}
	return count > 0, nil
}
