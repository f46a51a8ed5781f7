package model

// 日毎の注文連番。注文番号の採番（アトミックなUPSERT）に使う。
// Day はYYMMDD。当日分の件数を数える方式は同時チェックアウトで重複するので使わない。
type OrderDaySequence struct {
	Day     string `gorm:"type:varchar(6);primaryKey" json:"day"`
	LastSeq int64  `gorm:"not null" json:"last_seq"`
}
