package schedule

import "time"

// BroadcastSchedule binds a cron expression to a session, a template and a
// contact group. Each firing sends the template body to every contact in the
// group through the named session.
type BroadcastSchedule struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"uniqueIndex" json:"name" binding:"required"`
	SessionName  string     `json:"session" binding:"required"`
	TemplateID   uint       `json:"template_id" binding:"required"`
	ContactGroup string     `json:"contact_group"`
	CronExpr     string     `json:"cron_expr" binding:"required"`
	Enabled      bool       `json:"enabled"`
	LastRunAt    *time.Time `json:"last_run_at"`
	LastResult   string     `json:"last_result"`
	LastMessage  string     `json:"last_message"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
