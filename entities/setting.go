package entities

const (
	// SettingLatestSync holds the time of the last logistics import, dd-mm-yyyy HH:MM.
	SettingLatestSync = "latest_logistics_sync"
	// SettingProjectSeq is the last allocated PJT number.
	SettingProjectSeq = "project_seq"
)

type Setting struct {
	Key   string  `gorm:"primaryKey;column:key"`
	Value *string `gorm:"column:value"`
}
