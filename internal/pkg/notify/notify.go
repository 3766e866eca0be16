package notify

import (
	"log"

	"github.com/acessoclub/acessoclub/app/models"
	"gorm.io/gorm"
)

// Fanout delivers an event to every operator inbox. It is a best-effort side
// channel: every failure is logged and swallowed, the caller's grant never
// rolls back because a notification was lost.
func Fanout(db *gorm.DB, eventType string, title string, message string, referenceID uint) {
	if db == nil {
		log.Printf("notify: database unavailable, dropping %q notification", eventType)
		return
	}

	adminIDs, err := models.ListUserIDsWithRole(db, models.ROLE_ADMIN)
	if err != nil {
		log.Printf("notify: operator lookup failed: %v", err)
		return
	}
	if len(adminIDs) == 0 {
		log.Printf("notify: no operators to notify for %q", eventType)
		return
	}

	for _, id := range adminIDs {
		if err := models.CreateNotification(db, id, eventType, title, message, referenceID); err != nil {
			log.Printf("notify: failed to notify operator %d: %v", id, err)
		}
	}
}
