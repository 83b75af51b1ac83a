package database

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date 表示不含时间部分的日历日期，线上与落库格式均为 YYYY-MM-DD。
// 既用于 Education/Employment 的 date 列，也用于 JSON 文档里的出生日期。
type Date time.Time

// NewDate 构造给定年月日（UTC）的 Date。
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func (d Date) String() string {
	return time.Time(d).Format(dateLayout)
}

// Time 返回当天零点（UTC）。
func (d Date) Time() time.Time {
	t := time.Time(d)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MarshalJSON 输出 "YYYY-MM-DD"。
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON 接受 "YYYY-MM-DD"；null 保持零值。
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	t, err := time.ParseInLocation(dateLayout, s[1:len(s)-1], time.UTC)
	if err != nil {
		return fmt.Errorf("parse date: %w", err)
	}
	*d = Date(t)
	return nil
}

// Value 实现 driver.Valuer。
func (d Date) Value() (driver.Value, error) {
	return d.Time(), nil
}

// Scan 实现 sql.Scanner，兼容 time.Time 与文本两种返回形式。
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		*d = Date(time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC))
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("unsupported date source %T", value)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("scan date %q: %w", s, err)
	}
	*d = Date(t)
	return nil
}

// GormDataType 让 GORM 将该类型建为 date 列。
func (d Date) GormDataType() string {
	return "date"
}
