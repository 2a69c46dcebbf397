package entity

// UserTimezone stores the IANA timezone chosen by a user. Chat ids and user ids
// share the same key space, so the dispatcher looks timezones up by chat id.
type UserTimezone struct {
	UserID   int64  `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	Timezone string `gorm:"column:timezone;type:text;not null"`
}

// TableName specifies the table name for the UserTimezone entity.
func (UserTimezone) TableName() string {
	return "user_timezone"
}
